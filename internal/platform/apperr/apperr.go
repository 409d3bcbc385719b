// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for vidshare.

It provides a rich error type that bridges the gap between remote API failures,
client-side validation and what the browser is finally shown.

Taxonomy:

  - Validation: caught locally before any request is sent (VALIDATION_ERROR).
  - Authorization: detected by the gateway and handled globally by forced logout
    (SESSION_EXPIRED). Controllers never surface these.
  - Upstream: everything else the remote API reports (UPSTREAM_ERROR) or the
    transport failing with no response at all (UPSTREAM_UNAVAILABLE).
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Machine-readable error codes.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeSessionExpired      = "SESSION_EXPIRED"
	CodeNoSession           = "NO_SESSION"
	CodeInFlight            = "IN_FLIGHT"
	CodeUpstream            = "UPSTREAM_ERROR"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the vidshare frontend.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never rendered.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "UPSTREAM_ERROR").
	Code string `json:"code"`
	// Message is a human-readable description safe to show the user. May be
	// empty for upstream errors that carried no message.
	Message string `json:"error"`
	// HTTPStatus is the HTTP status associated with the failure.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.ToLower(e.Code), e.Cause)
	}
	return strings.ToLower(e.Code)
}

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client-side Errors

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// NoSession is returned by session operations that require an active session.
func NoSession() *AppError {
	return &AppError{
		Code:       CodeNoSession,
		Message:    "No active session",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InFlight is returned when an operation is refused because the same
// operation is still pending.
func InFlight(operation string) *AppError {
	return &AppError{
		Code:       CodeInFlight,
		Message:    operation + " is already in progress",
		HTTPStatus: http.StatusConflict,
	}
}

// # Authorization Errors

// SessionExpired marks a gateway-detected authorization failure after the
// session has already been torn down.
func SessionExpired(cause error) *AppError {
	return &AppError{
		Code:       CodeSessionExpired,
		Message:    "Your session has expired. Please log in again.",
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// # Upstream Errors

// Upstream wraps a non-2xx remote API response. Message is the server's
// message field verbatim, possibly empty.
func Upstream(status int, msg string) *AppError {
	return &AppError{
		Code:       CodeUpstream,
		Message:    msg,
		HTTPStatus: status,
	}
}

// UpstreamUnavailable wraps a transport-level failure where no response
// body exists at all.
func UpstreamUnavailable(cause error) *AppError {
	return &AppError{
		Code:       CodeUpstreamUnavailable,
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// # Server Errors

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never shown to the user.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// MessageOr returns the user-facing message carried by err, or fallback when
// err has none. Transport failures and foreign errors always yield fallback,
// so callers never depend on the shape of an error body.
func MessageOr(err error, fallback string) string {
	ae := As(err)
	if ae == nil || ae.Code == CodeUpstreamUnavailable || ae.Code == CodeInternal {
		return fallback
	}
	if msg := strings.TrimSpace(ae.Message); msg != "" {
		return msg
	}
	return fallback
}
