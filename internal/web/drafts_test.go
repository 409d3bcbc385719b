// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web_test

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidshare/internal/platform/apperr"
	"github.com/taibuivan/vidshare/internal/web"
)

func fileWithType(contentType string) *multipart.FileHeader {
	header := make(textproto.MIMEHeader)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{Filename: "f", Header: header}
}

func TestPictureDraft_Validate(t *testing.T) {
	tests := []struct {
		contentType string
		ok          bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"IMAGE/GIF", true},
		{"application/pdf", false},
		{"video/mp4", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			err := web.PictureDraft{File: fileWithType(tt.contentType)}.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.Equal(t, "Please select an image file", apperr.MessageOr(err, ""))
		})
	}

	assert.Error(t, web.PictureDraft{}.Validate(), "no file selected")
}

func TestVideoDraft_Validate(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		title       string
		message     string
	}{
		{"mp4", "video/mp4", "Clip", ""},
		{"mp4_with_params", "video/mp4; codecs=avc1", "Clip", "Please select a valid MP4 video file"},
		{"mp4_upper_case", "Video/MP4", "Clip", "Please select a valid MP4 video file"},
		{"quicktime", "video/quicktime", "Clip", "Please select a valid MP4 video file"},
		{"webm", "video/webm", "Clip", "Please select a valid MP4 video file"},
		{"image", "image/png", "Clip", "Please select a valid MP4 video file"},
		{"empty_title", "video/mp4", "", "Please enter a video title"},
		{"both_wrong", "video/webm", "", "Please select a valid MP4 video file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := web.VideoDraft{File: fileWithType(tt.contentType), Title: tt.title}.Validate()
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.message, apperr.MessageOr(err, ""))
		})
	}
}
