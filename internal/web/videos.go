// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidshare/internal/models"
	"github.com/taibuivan/vidshare/internal/platform/async"
	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/pkg/slice"
)

// listingGroup is one owner's row on the listing page.
type listingGroup struct {
	Owner   models.Profile
	Videos  []models.Video
	Total   int
	ViewAll string
}

type listingPage struct {
	page
	Groups  []listingGroup
	Loading bool
}

type userVideosPage struct {
	page
	Owner   *models.Profile
	Videos  []models.Video
	Loading bool
}

/*
Listing shows every video grouped by owner.

GET /listing

Owners appear in the order their first video appears in the fetched list;
each row shows at most five videos and links to the owner's full list.
*/
func (handler *Handler) listing(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)
	ctx := request.Context()

	current, err := s.store.Get(ctx)
	if err != nil {
		redirect(writer, request, constants.RouteLogin)
		return
	}

	state := async.Run(ctx, handler.runner, async.Task[[]models.Video]{
		Key:  s.key(opFetchAll),
		Call: func(ctx context.Context) ([]models.Video, error) { return s.gateway.ListVideos(ctx, "") },
		Live: liveFor(s.store, current.Token),
	})
	if state.Phase == async.Failed {
		s.logger.WarnContext(ctx, "videos_fetch_failed", slog.Any("error", state.Err))
	}

	groups := slice.Map(models.GroupByOwner(visibleVideos(state)), func(group models.OwnerGroup) listingGroup {
		return listingGroup{
			Owner:   group.Owner,
			Videos:  slice.Take(group.Videos, listingGroupSize),
			Total:   len(group.Videos),
			ViewAll: constants.RouteUserVideos + "/" + group.Owner.ID,
		}
	})

	handler.renderer.Render(writer, request, http.StatusOK, "listing.html", listingPage{
		page:    handler.page(request, s, "All videos"),
		Groups:  groups,
		Loading: state.Phase == async.Pending,
	})
}

/*
UserVideos shows every video of one owner.

GET /user-videos/{userId}

The header is taken from the first video's embedded owner; with no videos
the page shows an empty state.
*/
func (handler *Handler) userVideos(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)
	ctx := request.Context()
	userID := chi.URLParam(request, "userId")

	current, err := s.store.Get(ctx)
	if err != nil {
		redirect(writer, request, constants.RouteLogin)
		return
	}

	state := async.Run(ctx, handler.runner, async.Task[[]models.Video]{
		Key:  s.key(opFetchUser),
		Call: func(ctx context.Context) ([]models.Video, error) { return s.gateway.ListVideos(ctx, userID) },
		Live: liveFor(s.store, current.Token),
	})
	if state.Phase == async.Failed {
		s.logger.WarnContext(ctx, "user_videos_fetch_failed", slog.String("user_id", userID), slog.Any("error", state.Err))
	}

	videos := visibleVideos(state)
	data := userVideosPage{
		page:    handler.page(request, s, "Videos"),
		Videos:  videos,
		Loading: state.Phase == async.Pending,
	}
	if len(videos) > 0 {
		owner := videos[0].User
		data.Owner = &owner
		data.Title = owner.DisplayName()
	}

	handler.renderer.Render(writer, request, http.StatusOK, "user_videos.html", data)
}
