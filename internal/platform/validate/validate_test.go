// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidshare/internal/platform/apperr"
	"github.com/taibuivan/vidshare/internal/platform/validate"
)

/*
TestValidator_RequiredMsg tests the mandatory field validation logic.
*/
func TestValidator_RequiredMsg(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Holiday", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&validate.Validator{}).RequiredMsg(tt.field, tt.value, "Title is required").Err()

			if tt.hasError {
				require.Error(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, "Title is required", ae.Message)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_MediaType checks the exact media type rule used by video drafts.
Anything but the literal type is rejected, parameters and case included.
*/
func TestValidator_MediaType(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		isValid  bool
	}{
		{"mp4", "video/mp4", true},
		{"mp4_with_params", "video/mp4; codecs=avc1", false},
		{"mp4_upper", "VIDEO/MP4", false},
		{"mp4_mixed_case", "video/MP4", false},
		{"mp4_padded", " video/mp4", false},
		{"webm", "video/webm", false},
		{"quicktime", "video/quicktime", false},
		{"empty", "", false},
		{"garbage", "not a type", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&validate.Validator{}).
				MediaType("video", tt.declared, "video/mp4", "Please select a valid MP4 video file").
				Err()
			assert.Equal(t, tt.isValid, err == nil)
		})
	}
}

/*
TestValidator_MediaFamily checks the image family rule used by picture drafts.
*/
func TestValidator_MediaFamily(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		isValid  bool
	}{
		{"png", "image/png", true},
		{"jpeg", "image/jpeg", true},
		{"svg", "image/svg+xml", true},
		{"pdf", "application/pdf", false},
		{"prefix_trap", "imagex/png", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&validate.Validator{}).
				MediaFamily("img", tt.declared, "image", "Please select an image file").
				Err()
			assert.Equal(t, tt.isValid, err == nil)
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation and the surfaced message.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		MediaType("video", "application/pdf", "video/mp4", "Please select a valid MP4 video file").
		RequiredMsg("title", "", "Please enter a title").
		Email("email", "not-an-email").
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	assert.Len(t, ae.Details, 3)
	assert.Equal(t, "Please select a valid MP4 video file", ae.Message)
}
