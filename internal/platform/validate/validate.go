// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Validation runs in the controllers before any request leaves for the remote
// API. A draft that fails here never reaches the network.
package validate

import (
	"mime"
	"net/mail"
	"strings"

	"github.com/taibuivan/vidshare/internal/platform/apperr"
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// RequiredMsg fails with message if the trimmed value is empty.
func (v *Validator) RequiredMsg(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, message)
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// # Media Types

// MediaType fails unless the declared Content-Type is exactly want, byte for
// byte. Parameters or a different case make it fail.
func (v *Validator) MediaType(field, declared, want, message string) *Validator {
	if declared != want {
		v.add(field, message)
	}
	return v
}

// MediaFamily fails unless the declared Content-Type belongs to the given
// top-level family ("image", "video", ...).
func (v *Validator) MediaFamily(field, declared, family, message string) *Validator {
	base := baseMediaType(declared)
	if base == "" || !strings.HasPrefix(base, strings.ToLower(family)+"/") {
		v.add(field, message)
	}
	return v
}

// baseMediaType returns the lowercased type/subtype of a Content-Type value,
// or "" when it cannot be parsed.
func baseMediaType(declared string) string {
	if strings.TrimSpace(declared) == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

// Custom adds a failure with a custom message if the condition is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed. The error message is the first failure's
// message so it can be shown as-is.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(v.errs[0].Message, v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
