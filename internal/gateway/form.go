// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// File is an uploaded file on its way to the remote API.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// formWriter writes multipart parts with explicit part content types.
type formWriter struct {
	writer *multipart.Writer
}

func (form *formWriter) field(name, value string) error {
	if err := form.writer.WriteField(name, value); err != nil {
		return fmt.Errorf("gateway_form_field_failed: %w", err)
	}
	return nil
}

// file copies the file into a part whose Content-Type is the declared media
// type, so the remote API sees the same type that was validated.
func (form *formWriter) file(name string, file File) error {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(file.Name)))
	header.Set("Content-Type", contentType)

	part, err := form.writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("gateway_form_part_failed: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return fmt.Errorf("gateway_form_copy_failed: %w", err)
	}
	return nil
}

// streamForm returns a request body that is produced by build as the
// transport reads it, so large videos are never buffered whole. A build
// error surfaces as a transport error on the request.
func streamForm(build func(form *formWriter) error) (io.Reader, string) {
	reader, writer := io.Pipe()
	multipartWriter := multipart.NewWriter(writer)

	go func() {
		err := build(&formWriter{writer: multipartWriter})
		if err == nil {
			err = multipartWriter.Close()
		}
		_ = writer.CloseWithError(err)
	}()

	return reader, multipartWriter.FormDataContentType()
}
