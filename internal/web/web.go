// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package web provides the browser-facing screens of vidshare.

Each screen is a thin controller: it validates drafts locally, runs its
network operation through the async runner (so re-entry, liveness and the
Idle/Pending/Succeeded/Failed states are handled the same way everywhere),
and reports the outcome with a notice on the next page.

Every state-changing request follows Post/Redirect/Get. Forced logouts are
not handled here: the gateway fires the request's teardown signal and the
teardown middleware replaces whatever the controller wrote.
*/
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidshare/internal/gateway"
	"github.com/taibuivan/vidshare/internal/models"
	"github.com/taibuivan/vidshare/internal/platform/async"
	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/internal/platform/ctxutil"
	"github.com/taibuivan/vidshare/internal/platform/middleware"
	"github.com/taibuivan/vidshare/internal/session"
)

// Operation names, one re-entry guard each per tab.
const (
	opRegister       = "register"
	opLogin          = "login"
	opFetchOwn       = "fetch-own-videos"
	opFetchAll       = "fetch-videos"
	opFetchUser      = "fetch-user-videos"
	opUploadPicture  = "upload-picture"
	opSaveBio        = "save-bio"
	opUploadVideo    = "upload-video"
	listingGroupSize = 5
)

// # Definitions & Constructors

// Limits bounds upload handling.
type Limits struct {
	MaxUploadBytes  int64
	MultipartMemory int64
}

// Handler implements every screen.
type Handler struct {
	client   *gateway.Client
	runner   *async.Runner
	notices  *Notices
	renderer *Renderer
	limits   Limits
}

// NewHandler constructs a [Handler].
func NewHandler(client *gateway.Client, runner *async.Runner, notices *Notices, renderer *Renderer, limits Limits) *Handler {
	return &Handler{
		client:   client,
		runner:   runner,
		notices:  notices,
		renderer: renderer,
		limits:   limits,
	}
}

// Routes returns a [chi.Router] with the public and session-gated screens.
//
// # Endpoints
//   - GET/POST /signup, GET/POST /login, POST /logout : public
//   - GET /, POST /profile/picture, POST /profile/bio, POST /videos,
//     POST /notice/dismiss, GET /listing, GET /user-videos/{userId} : gated
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public screens
	router.Get(constants.RouteSignup, handler.signupForm)
	router.Post(constants.RouteSignup, handler.signup)
	router.Get(constants.RouteLogin, handler.loginForm)
	router.Post(constants.RouteLogin, handler.login)
	router.Post(constants.RouteLogout, handler.logout)

	// Gated screens
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get(constants.RouteHome, handler.home)
		r.Post("/profile/picture", handler.uploadPicture)
		r.Post("/profile/bio", handler.saveBio)
		r.Post("/videos", handler.uploadVideo)
		r.Post("/notice/dismiss", handler.dismissNotice)
		r.Get(constants.RouteListing, handler.listing)
		r.Get(constants.RouteUserVideos+"/{userId}", handler.userVideos)
	})

	return router
}

// # Request Helpers

// screen is the per-request view of the tab: its store, its gateway and its
// operation keys.
type screen struct {
	tabID   string
	store   *session.Store
	gateway *gateway.Gateway
	logger  *slog.Logger
}

func (handler *Handler) screen(request *http.Request) screen {
	store := session.FromContext(request.Context())
	return screen{
		tabID:   store.TabID(),
		store:   store,
		gateway: handler.client.Bind(store, gateway.RequestNavigator),
		logger:  ctxutil.GetLogger(request.Context()),
	}
}

func (s screen) key(operation string) async.Key {
	return async.Key{Owner: s.tabID, Operation: operation}
}

// page is the data every template receives.
type page struct {
	Title  string
	User   *models.Profile
	Notice *Notice
}

// page builds the layout data: the current user from the tab's slice and
// the pending notice, which is acknowledged by being shown.
func (handler *Handler) page(request *http.Request, s screen, title string) page {
	data := page{Title: title}
	if user, ok := s.store.Slice().Snapshot(); ok {
		data.User = &user
	}

	notice, err := handler.notices.Pop(request.Context(), s.tabID)
	if err != nil {
		s.logger.WarnContext(request.Context(), "notice_load_failed", slog.Any("error", err))
	}
	data.Notice = notice
	return data
}

// notify records the outcome shown on the next page.
func (handler *Handler) notify(request *http.Request, s screen, kind NoticeKind, message string) {
	err := handler.notices.Push(request.Context(), s.tabID, Notice{Kind: kind, Message: message})
	if err != nil {
		s.logger.WarnContext(request.Context(), "notice_save_failed", slog.Any("error", err))
	}
}

func redirect(writer http.ResponseWriter, request *http.Request, target string) {
	http.Redirect(writer, request, target, http.StatusSeeOther)
}

// dismissNotice acknowledges the pending notice.
func (handler *Handler) dismissNotice(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)
	if err := handler.notices.Dismiss(request.Context(), s.tabID); err != nil {
		s.logger.WarnContext(request.Context(), "notice_dismiss_failed", slog.Any("error", err))
	}
	redirect(writer, request, constants.RouteHome)
}
