// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"

	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/internal/platform/ctxutil"
	"github.com/taibuivan/vidshare/internal/session"
)

// # Tab Identity

// TabCookies issues and verifies the signed cookie naming the browser tab.
type TabCookies struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewTabCookies constructs a [TabCookies]. A nil blockKey signs without
// encrypting. secure marks the cookie HTTPS-only.
func NewTabCookies(hashKey, blockKey []byte, secure bool) *TabCookies {
	codec := securecookie.New(hashKey, blockKey)

	// The cookie lives as long as the browser session, so the codec must not
	// reject it by age.
	codec.MaxAge(0)

	return &TabCookies{codec: codec, secure: secure}
}

// Middleware puts the tab ID into the request context, issuing a fresh tab
// when the cookie is missing or fails verification.
func (cookies *TabCookies) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		logger := ctxutil.GetLogger(ctx)

		var tabID string
		if cookie, err := request.Cookie(constants.TabCookieName); err == nil {
			if err := cookies.codec.Decode(constants.TabCookieName, cookie.Value, &tabID); err != nil {
				logger.InfoContext(ctx, "tab_cookie_rejected", slog.Any("error", err))
				tabID = ""
			}
		}

		if tabID == "" {
			tabID = newID()
			encoded, err := cookies.codec.Encode(constants.TabCookieName, tabID)
			if err != nil {
				logger.ErrorContext(ctx, "tab_cookie_encode_failed", slog.Any("error", err))
				http.Error(writer, "An unexpected error occurred", http.StatusInternalServerError)
				return
			}

			// No Expires or MaxAge: the browser drops it with the session.
			http.SetCookie(writer, &http.Cookie{
				Name:     constants.TabCookieName,
				Value:    encoded,
				Path:     "/",
				HttpOnly: true,
				Secure:   cookies.secure,
				SameSite: http.SameSiteLaxMode,
			})
			logger.DebugContext(ctx, "tab_issued", slog.String("tab_id", tabID))
		}

		ctx = ctxutil.WithTabID(ctx, tabID)
		ctx = ctxutil.WithLogger(ctx, logger.With(slog.String("tab_id", tabID)))
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// # Session Loading

// LoadSession installs the tab's session store into the request context.
// It must run after [TabCookies.Middleware].
func LoadSession(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tabID := ctxutil.GetTabID(request.Context())
			if tabID == "" {
				http.Error(writer, "An unexpected error occurred", http.StatusInternalServerError)
				return
			}

			ctx := session.NewContext(request.Context(), manager.For(tabID))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Forced Logout

// bufferedWriter holds a handler's response until it is known whether the
// request ended in a forced logout.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (buffered *bufferedWriter) Header() http.Header { return buffered.header }

func (buffered *bufferedWriter) Write(data []byte) (int, error) {
	if buffered.status == 0 {
		buffered.status = http.StatusOK
	}
	return buffered.body.Write(data)
}

func (buffered *bufferedWriter) WriteHeader(status int) {
	if buffered.status == 0 {
		buffered.status = status
	}
}

func (buffered *bufferedWriter) flushTo(writer http.ResponseWriter) {
	destination := writer.Header()
	for key, values := range buffered.header {
		destination[key] = values
	}
	if buffered.status == 0 {
		buffered.status = http.StatusOK
	}
	writer.WriteHeader(buffered.status)
	_, _ = buffered.body.WriteTo(writer)
}

// Teardown replaces the response with a 303 to the login page when the
// session was torn down while the request was served, whatever the handler
// wrote.
func Teardown(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, signal := ctxutil.WithTeardown(request.Context())
		buffered := &bufferedWriter{header: make(http.Header)}

		next.ServeHTTP(buffered, request.WithContext(ctx))

		if signal.Fired() {
			ctxutil.GetLogger(ctx).InfoContext(ctx, "forced_logout_redirect", slog.Int("discarded_status", buffered.status))
			http.Redirect(writer, request, constants.RouteLogin, http.StatusSeeOther)
			return
		}

		buffered.flushTo(writer)
	})
}

// # Route Guard

// RequireSession renders gated routes only when the tab has a session and
// otherwise redirects to the login page. It must run after [LoadSession].
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		store := session.FromContext(request.Context())
		if store == nil || !store.Exists(request.Context()) {
			http.Redirect(writer, request, constants.RouteLogin, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(writer, request)
	})
}
