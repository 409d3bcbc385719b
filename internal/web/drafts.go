// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/vidshare/internal/gateway"
	"github.com/taibuivan/vidshare/internal/platform/apperr"
	"github.com/taibuivan/vidshare/internal/platform/validate"
)

// Validation messages shown to the user.
const (
	msgSelectImage  = "Please select an image file"
	msgSelectMP4    = "Please select a valid MP4 video file"
	msgEnterTitle   = "Please enter a video title"
	msgFileTooLarge = "The selected file is too large"
)

const mediaTypeMP4 = "video/mp4"

// normalize trims s and puts it in Unicode NFC form.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// # Drafts

// PictureDraft is a profile picture awaiting upload.
type PictureDraft struct {
	File *multipart.FileHeader
}

// ContentType returns the media type the browser declared for the file.
func (draft PictureDraft) ContentType() string {
	if draft.File == nil {
		return ""
	}
	return draft.File.Header.Get("Content-Type")
}

// Validate accepts any declared type in the image family.
func (draft PictureDraft) Validate() error {
	return (&validate.Validator{}).
		Custom("img", draft.File == nil, msgSelectImage).
		MediaFamily("img", draft.ContentType(), "image", msgSelectImage).
		Err()
}

// VideoDraft is a video awaiting upload.
type VideoDraft struct {
	File        *multipart.FileHeader
	Title       string
	Description string
}

// ContentType returns the media type the browser declared for the file.
func (draft VideoDraft) ContentType() string {
	if draft.File == nil {
		return ""
	}
	return draft.File.Header.Get("Content-Type")
}

// Validate accepts exactly video/mp4 with a non-empty title. The file is
// checked first so its message wins when both are wrong.
func (draft VideoDraft) Validate() error {
	return (&validate.Validator{}).
		Custom("video", draft.File == nil, msgSelectMP4).
		MediaType("video", draft.ContentType(), mediaTypeMP4, msgSelectMP4).
		RequiredMsg("title", draft.Title, msgEnterTitle).
		Err()
}

// # Parsing

// parseUpload reads a multipart form bounded by maxBytes. The caller must
// call cleanup once the draft is finished with.
func parseUpload(writer http.ResponseWriter, request *http.Request, maxBytes, memory int64) (cleanup func(), err error) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)
	cleanup = func() {
		if request.MultipartForm != nil {
			_ = request.MultipartForm.RemoveAll()
		}
	}

	if err := request.ParseMultipartForm(memory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return cleanup, apperr.ValidationError(msgFileTooLarge)
		}
		return cleanup, apperr.ValidationError("Invalid upload form")
	}
	return cleanup, nil
}

// formFile returns the first file under field, or nil.
func formFile(request *http.Request, field string) *multipart.FileHeader {
	if request.MultipartForm == nil {
		return nil
	}
	files := request.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// openFile turns a validated draft file into a gateway upload. The caller
// closes the returned file.
func openFile(header *multipart.FileHeader) (gateway.File, multipart.File, error) {
	file, err := header.Open()
	if err != nil {
		return gateway.File{}, nil, apperr.Internal(err)
	}
	return gateway.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, file, nil
}
