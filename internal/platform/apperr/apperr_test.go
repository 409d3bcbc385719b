// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidshare/internal/platform/apperr"
)

/*
TestMessageOr verifies that a user-facing message is always produced,
whatever shape the failure had.
*/
func TestMessageOr(t *testing.T) {
	const fallback = "Failed to upload video"

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server_message", apperr.Upstream(http.StatusBadRequest, "Title too long"), "Title too long"},
		{"server_without_message", apperr.Upstream(http.StatusInternalServerError, ""), fallback},
		{"whitespace_message", apperr.Upstream(http.StatusBadRequest, "   "), fallback},
		{"transport_failure", apperr.UpstreamUnavailable(errors.New("dial tcp: refused")), fallback},
		{"wrapped_validation", fmt.Errorf("upload: %w", apperr.ValidationError("Please select a valid MP4 video file")), "Please select a valid MP4 video file"},
		{"foreign_error", errors.New("boom"), fallback},
		{"internal", apperr.Internal(errors.New("nil map")), fallback},
		{"nil", nil, fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.MessageOr(tt.err, fallback))
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("gateway: %w", apperr.SessionExpired(nil))

	assert.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
	assert.False(t, apperr.HasCode(err, apperr.CodeUpstream))
	assert.False(t, apperr.HasCode(errors.New("plain"), apperr.CodeUpstream))
}

func TestAppError_ErrorString(t *testing.T) {
	cause := errors.New("connection reset")

	assert.Equal(t, "upstream_unavailable: connection reset", apperr.UpstreamUnavailable(cause).Error())
	assert.Equal(t, "upstream_error", apperr.Upstream(http.StatusBadGateway, "").Error())
	assert.ErrorIs(t, apperr.UpstreamUnavailable(cause), cause)
}
