// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidshare/internal/api"
	"github.com/taibuivan/vidshare/internal/gateway"
	"github.com/taibuivan/vidshare/internal/platform/async"
	"github.com/taibuivan/vidshare/internal/platform/config"
	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/internal/platform/middleware"
	"github.com/taibuivan/vidshare/internal/session"
	"github.com/taibuivan/vidshare/internal/web"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newServer(t *testing.T, deps api.HealthDependencies) *api.Server {
	t.Helper()

	cfg, err := config.LoadFrom(map[string]string{
		"API_BASE_URL":   "http://api.invalid",
		"SESSION_SECRET": "0123456789abcdef0123456789abcdef",
	})
	require.NoError(t, err)

	client, err := gateway.NewClient(gateway.ClientConfig{BaseURL: cfg.APIBaseURL, Logger: discard})
	require.NoError(t, err)
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	storage := session.NewMemoryStorage()
	manager := session.NewManager(storage, session.NewSlices(8), time.Hour, discard)
	handler := web.NewHandler(client, async.NewRunner(async.NewMemoryTracker(), time.Minute, discard),
		web.NewNotices(storage, time.Hour), renderer, web.Limits{MaxUploadBytes: 1 << 20, MultipartMemory: 1 << 10})

	liveness, readiness := api.NewHealthHandlers(deps, discard)

	proxies, err := middleware.NewProxyTrust(cfg.TrustedProxies)
	require.NoError(t, err)

	return api.NewServer(cfg, discard, api.Chain{
		Proxies:  proxies,
		Limiter:  middleware.NewRateLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst),
		Tabs:     middleware.NewTabCookies([]byte(cfg.SessionSecret), nil, false),
		Sessions: manager,
	}, api.Handlers{Liveness: liveness, Readiness: readiness, Web: handler})
}

func TestHealth_NoTabCookie(t *testing.T) {
	server := newServer(t, api.HealthDependencies{})

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies())
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		deps   api.HealthDependencies
		status int
		state  string
	}{
		{
			name:   "ready",
			deps:   api.HealthDependencies{CheckUpstream: func(context.Context) error { return nil }},
			status: http.StatusOK,
			state:  "ready",
		},
		{
			name: "degraded",
			deps: api.HealthDependencies{
				CheckUpstream: func(context.Context) error { return nil },
				CheckCache:    func(context.Context) error { return errors.New("redis down") },
			},
			status: http.StatusServiceUnavailable,
			state:  "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, tt.deps)

			recorder := httptest.NewRecorder()
			server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.status, recorder.Code)

			var envelope struct {
				Data struct {
					Status string `json:"status"`
				} `json:"data"`
			}
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
			assert.Equal(t, tt.state, envelope.Data.Status)
		})
	}
}

func TestScreens_IssueTabAndGuard(t *testing.T) {
	server := newServer(t, api.HealthDependencies{})

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.RouteLogin, recorder.Header().Get("Location"))
	require.Len(t, recorder.Result().Cookies(), 1)
	assert.Equal(t, constants.TabCookieName, recorder.Result().Cookies()[0].Name)

	recorder = httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Log in")
}
