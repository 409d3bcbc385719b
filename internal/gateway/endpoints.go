// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/taibuivan/vidshare/internal/models"
	"github.com/taibuivan/vidshare/internal/platform/apperr"
	"github.com/taibuivan/vidshare/internal/session"
	"github.com/taibuivan/vidshare/pkg/pointer"
)

// # Request Payloads

// Registration is the signup form. The password is delivered out of band.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	MobileNum string `json:"mobileNum"`
}

// Credentials is the login form.
type Credentials struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// ProfileUpdate carries the profile fields to send. Nil fields are omitted.
type ProfileUpdate struct {
	Image *File
	Bio   *string
}

// VideoUpload is a validated video draft.
type VideoUpload struct {
	File        File
	Title       string
	Description string
}

// # Response Payloads

type loginResponse struct {
	Data struct {
		Token string         `json:"token"`
		User  models.Profile `json:"user"`
	} `json:"data"`
}

type profileResponse struct {
	User models.Profile `json:"user"`
}

type videoResponse struct {
	Data models.Video `json:"data"`
}

type videoListResponse struct {
	Data json.RawMessage `json:"data"`
}

// # Operations

// Register creates an account. No session is established.
func (g *Gateway) Register(ctx context.Context, registration Registration) error {
	body, err := jsonBody(registration)
	if err != nil {
		return err
	}
	return g.send(ctx, outgoing{
		method:      http.MethodPost,
		segments:    []string{"signup"},
		body:        body,
		contentType: "application/json",
	}, nil)
}

/*
Login authenticates and returns the new session. The caller stores it.

Returns:
  - session.Session: token and profile, both guaranteed present
  - error: upstream failures, or an internal error when the response lacks
    either half of the session
*/
func (g *Gateway) Login(ctx context.Context, credentials Credentials) (session.Session, error) {
	body, err := jsonBody(credentials)
	if err != nil {
		return session.Session{}, err
	}

	var response loginResponse
	err = g.send(ctx, outgoing{
		method:      http.MethodPost,
		segments:    []string{"login"},
		body:        body,
		contentType: "application/json",
	}, &response)
	if err != nil {
		return session.Session{}, err
	}

	if response.Data.Token == "" || response.Data.User.ID == "" {
		return session.Session{}, apperr.Internal(fmt.Errorf("gateway_login_incomplete: token or user missing"))
	}

	return session.Session{Token: response.Data.Token, User: response.Data.User}, nil
}

/*
UpdateProfile sends the image and/or bio as multipart form data.

Returns the profile fields the server reports as changed. Only non-empty
imgUrl and bio are included in the patch.
*/
func (g *Gateway) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (models.ProfilePatch, error) {
	if update.Image == nil && update.Bio == nil {
		return models.ProfilePatch{}, apperr.ValidationError("Nothing to update")
	}

	body, contentType := streamForm(func(form *formWriter) error {
		if update.Image != nil {
			if err := form.file("img", *update.Image); err != nil {
				return err
			}
		}
		if update.Bio != nil {
			return form.field("bio", *update.Bio)
		}
		return nil
	})

	var response profileResponse
	err := g.send(ctx, outgoing{
		method:      http.MethodPost,
		segments:    []string{"profile", userID},
		body:        body,
		contentType: contentType,
	}, &response)
	if err != nil {
		return models.ProfilePatch{}, err
	}

	patch := models.ProfilePatch{
		ImgURL: pointer.NonZero(response.User.ImgURL),
		Bio:    pointer.NonZero(response.User.Bio),
	}
	return patch, nil
}

// UploadVideo streams the video file with its title and description. The
// returned record is zero when the server sends no body.
func (g *Gateway) UploadVideo(ctx context.Context, userID string, upload VideoUpload) (models.Video, error) {
	body, contentType := streamForm(func(form *formWriter) error {
		if err := form.file("video", upload.File); err != nil {
			return err
		}
		if err := form.field("title", upload.Title); err != nil {
			return err
		}
		return form.field("description", upload.Description)
	})

	var response videoResponse
	err := g.send(ctx, outgoing{
		method:      http.MethodPost,
		segments:    []string{"uploadVideo", userID},
		body:        body,
		contentType: contentType,
	}, &response)
	if err != nil {
		return models.Video{}, err
	}
	return response.Data, nil
}

// ListVideos fetches the videos of userID, or of every user when userID is
// empty. A response whose data is not an array yields an empty list.
func (g *Gateway) ListVideos(ctx context.Context, userID string) ([]models.Video, error) {
	var response videoListResponse
	err := g.send(ctx, outgoing{
		method:   http.MethodGet,
		segments: []string{"getVideos", userID},
	}, &response)
	if err != nil {
		return nil, err
	}

	data := bytes.TrimSpace(response.Data)
	if len(data) == 0 || data[0] != '[' {
		return []models.Video{}, nil
	}

	videos := []models.Video{}
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, apperr.Internal(fmt.Errorf("gateway_decode_failed: %w", err))
	}
	return videos, nil
}
