// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/vidshare/internal/gateway"
	"github.com/taibuivan/vidshare/internal/models"
	"github.com/taibuivan/vidshare/internal/platform/apperr"
	"github.com/taibuivan/vidshare/internal/platform/async"
	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/internal/session"
	"github.com/taibuivan/vidshare/pkg/pointer"
)

const (
	msgPictureUpdated = "Profile picture updated successfully"
	msgPictureFailed  = "Failed to update profile picture"
	msgBioSaved       = "Bio saved"
	msgBioFailed      = "Failed to save bio"
	msgVideoUploaded  = "Video uploaded successfully"
	msgVideoFailed    = "Failed to upload video"
)

type homePage struct {
	page
	Profile         models.Profile
	Videos          []models.Video
	LoadingVideos   bool
	UploadingImage  bool
	SavingBio       bool
	UploadingVideo  bool
	EditingBio      bool
	ShowUploadForm  bool
	AcceptVideoType string
}

/*
Home renders the profile and the user's own videos.

GET /

The own-videos list is refetched on every render and replaced wholesale. A
failed fetch shows an empty list.
*/
func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)
	ctx := request.Context()

	current, err := s.store.Get(ctx)
	if err != nil {
		redirect(writer, request, constants.RouteLogin)
		return
	}

	state := async.Run(ctx, handler.runner, async.Task[[]models.Video]{
		Key:  s.key(opFetchOwn),
		Call: func(ctx context.Context) ([]models.Video, error) { return s.gateway.ListVideos(ctx, current.User.ID) },
		Live: liveFor(s.store, current.Token),
	})
	if state.Phase == async.Failed {
		s.logger.WarnContext(ctx, "own_videos_fetch_failed", slog.Any("error", state.Err))
	}

	data := homePage{
		page:            handler.page(request, s, "My profile"),
		Profile:         current.User,
		Videos:          visibleVideos(state),
		LoadingVideos:   state.Phase == async.Pending,
		UploadingImage:  handler.runner.Status(ctx, s.key(opUploadPicture)) == async.Pending,
		SavingBio:       handler.runner.Status(ctx, s.key(opSaveBio)) == async.Pending,
		UploadingVideo:  handler.runner.Status(ctx, s.key(opUploadVideo)) == async.Pending,
		EditingBio:      request.URL.Query().Get("edit") == "bio",
		ShowUploadForm:  request.URL.Query().Get("upload") == "video",
		AcceptVideoType: mediaTypeMP4,
	}
	if profile, ok := s.store.Slice().Snapshot(); ok {
		data.Profile = profile
	}

	handler.renderer.Render(writer, request, http.StatusOK, "home.html", data)
}

/*
UploadPicture replaces the profile picture.

POST /profile/picture

Only image/* files are sent. On success the new imgUrl is merged into the
session; the token is untouched.
*/
func (handler *Handler) uploadPicture(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)
	ctx := request.Context()

	cleanup, err := parseUpload(writer, request, handler.limits.MaxUploadBytes, handler.limits.MultipartMemory)
	defer cleanup()

	draft := PictureDraft{File: formFile(request, "img")}
	if err == nil {
		err = draft.Validate()
	}
	if err != nil {
		handler.notify(request, s, NoticeError, apperr.MessageOr(err, msgSelectImage))
		redirect(writer, request, constants.RouteHome)
		return
	}

	current, err := s.store.Get(ctx)
	if err != nil {
		redirect(writer, request, constants.RouteLogin)
		return
	}

	state := async.Run(ctx, handler.runner, async.Task[models.ProfilePatch]{
		Key: s.key(opUploadPicture),
		Call: func(ctx context.Context) (models.ProfilePatch, error) {
			upload, file, err := openFile(draft.File)
			if err != nil {
				return models.ProfilePatch{}, err
			}
			defer file.Close()
			return s.gateway.UpdateProfile(ctx, current.User.ID, gateway.ProfileUpdate{Image: &upload})
		},
		Live:  liveFor(s.store, current.Token),
		Apply: mergeInto(s.store),
	})

	report(handler, request, s, state, confirmed(state, msgPictureUpdated), msgPictureFailed)
	redirect(writer, request, constants.RouteHome)
}

/*
SaveBio replaces the bio.

POST /profile/bio
*/
func (handler *Handler) saveBio(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)
	ctx := request.Context()

	bio := normalize(request.PostFormValue("bio"))

	current, err := s.store.Get(ctx)
	if err != nil {
		redirect(writer, request, constants.RouteLogin)
		return
	}

	state := async.Run(ctx, handler.runner, async.Task[models.ProfilePatch]{
		Key: s.key(opSaveBio),
		Call: func(ctx context.Context) (models.ProfilePatch, error) {
			return s.gateway.UpdateProfile(ctx, current.User.ID, gateway.ProfileUpdate{Bio: pointer.To(bio)})
		},
		Live:  liveFor(s.store, current.Token),
		Apply: mergeInto(s.store),
	})

	report(handler, request, s, state, confirmed(state, msgBioSaved), msgBioFailed)
	redirect(writer, request, constants.RouteHome)
}

/*
UploadVideo uploads an MP4 with its title and description.

POST /videos

The draft is validated before any network call. A second submit while the
first is still uploading is refused without reaching the remote API.
*/
func (handler *Handler) uploadVideo(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)
	ctx := request.Context()

	cleanup, err := parseUpload(writer, request, handler.limits.MaxUploadBytes, handler.limits.MultipartMemory)
	defer cleanup()

	draft := VideoDraft{
		File:        formFile(request, "video"),
		Title:       normalize(request.PostFormValue("title")),
		Description: normalize(request.PostFormValue("description")),
	}
	if err == nil {
		err = draft.Validate()
	}
	if err != nil {
		handler.notify(request, s, NoticeError, apperr.MessageOr(err, msgSelectMP4))
		redirect(writer, request, constants.RouteHome)
		return
	}

	current, err := s.store.Get(ctx)
	if err != nil {
		redirect(writer, request, constants.RouteLogin)
		return
	}

	state := async.Run(ctx, handler.runner, async.Task[models.Video]{
		Key: s.key(opUploadVideo),
		Call: func(ctx context.Context) (models.Video, error) {
			upload, file, err := openFile(draft.File)
			if err != nil {
				return models.Video{}, err
			}
			defer file.Close()
			return s.gateway.UploadVideo(ctx, current.User.ID, gateway.VideoUpload{
				File:        upload,
				Title:       draft.Title,
				Description: draft.Description,
			})
		},
		Live: liveFor(s.store, current.Token),
	})

	if state.Phase == async.Succeeded && !state.Stale {
		s.logger.InfoContext(ctx, "video_uploaded", slog.String("video_id", state.Value.ID))
	}
	report(handler, request, s, state, msgVideoUploaded, msgVideoFailed)
	redirect(writer, request, constants.RouteHome)
}

// # Helpers

// liveFor reports whether the tab still holds the session a call was
// started under.
func liveFor(store *session.Store, token string) func(context.Context) bool {
	return func(ctx context.Context) bool { return store.IsCurrent(ctx, token) }
}

// mergeInto applies a profile patch to the tab's session.
func mergeInto(store *session.Store) func(context.Context, models.ProfilePatch) error {
	return func(ctx context.Context, patch models.ProfilePatch) error {
		if patch.IsEmpty() {
			return nil
		}
		_, err := store.MergeUserFields(ctx, patch)
		return err
	}
}

// confirmed returns success when the server echoed at least one updated
// profile field, and "" otherwise.
func confirmed(state async.State[models.ProfilePatch], success string) string {
	if state.Value.IsEmpty() {
		return ""
	}
	return success
}

// report turns an operation outcome into the notice for the next page. A
// refused re-entry, a stale result, a forced logout and an empty success
// message leave no notice.
func report[T any](handler *Handler, request *http.Request, s screen, state async.State[T], success, fallback string) {
	switch state.Phase {
	case async.Succeeded:
		if !state.Stale && success != "" {
			handler.notify(request, s, NoticeSuccess, success)
		}
	case async.Failed:
		if apperr.HasCode(state.Err, apperr.CodeSessionExpired) {
			return
		}
		s.logger.InfoContext(request.Context(), "operation_reported_failure", slog.Any("error", state.Err))
		handler.notify(request, s, NoticeError, apperr.MessageOr(state.Err, fallback))
	}
}

// visibleVideos returns the fetched list, or an empty one when the fetch did
// not succeed or its result is stale.
func visibleVideos(state async.State[[]models.Video]) []models.Video {
	if state.Phase != async.Succeeded || state.Stale || state.Value == nil {
		return []models.Video{}
	}
	return state.Value
}
