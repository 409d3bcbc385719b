// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidshare/internal/gateway"
	"github.com/taibuivan/vidshare/internal/models"
	"github.com/taibuivan/vidshare/internal/platform/apperr"
	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/internal/platform/ctxutil"
	"github.com/taibuivan/vidshare/internal/session"
	"github.com/taibuivan/vidshare/pkg/pointer"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixture wires a gateway for one tab against a stub remote API.
type fixture struct {
	store      *session.Store
	gateway    *gateway.Gateway
	navigation atomic.Int32
}

func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gateway.NewClient(gateway.ClientConfig{BaseURL: server.URL + "/api", Logger: discard})
	require.NoError(t, err)

	manager := session.NewManager(session.NewMemoryStorage(), session.NewSlices(8), time.Hour, discard)

	f := &fixture{store: manager.For("tab-1")}
	f.gateway = client.Bind(f.store, gateway.NavigatorFunc(func(context.Context) { f.navigation.Add(1) }))
	return f
}

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

/*
TestGateway_LoginThenUnauthorized logs in as bob, then receives a 401 on a
later call and checks that the session is torn down.
*/
func TestGateway_LoginThenUnauthorized(t *testing.T) {
	var seenToken atomic.Value

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(writer http.ResponseWriter, request *http.Request) {
		var credentials gateway.Credentials
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&credentials))
		assert.Equal(t, "bob", credentials.UserName)
		assert.Equal(t, "x", credentials.Password)

		writeJSON(writer, http.StatusOK, map[string]any{
			"data": map[string]any{"token": "T1", "user": map[string]any{"_id": "u1", "userName": "bob"}},
		})
	})
	mux.HandleFunc("GET /api/getVideos/{userId}", func(writer http.ResponseWriter, request *http.Request) {
		seenToken.Store(request.Header.Get(constants.HeaderToken))
		writeJSON(writer, http.StatusUnauthorized, map[string]string{"message": "jwt expired"})
	})

	f := newFixture(t, mux)
	ctx := context.Background()

	current, err := f.gateway.Login(ctx, gateway.Credentials{UserName: "bob", Password: "x"})
	require.NoError(t, err)
	require.NoError(t, f.store.Set(ctx, current))

	stored, err := f.store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T1", stored.Token)
	assert.Equal(t, "u1", stored.User.ID)

	_, err = f.gateway.ListVideos(ctx, "u1")
	require.Error(t, err)

	assert.Equal(t, "T1", seenToken.Load())
	assert.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
	assert.False(t, f.store.Exists(ctx))
	assert.Equal(t, int32(1), f.navigation.Load())

	_, loggedIn := f.store.Slice().Snapshot()
	assert.False(t, loggedIn)
}

func TestGateway_NoTokenWithoutSession(t *testing.T) {
	var header atomic.Value

	f := newFixture(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header.Store(request.Header.Get(constants.HeaderToken))
		assert.Equal(t, "/api/signup", request.URL.Path)
		writer.WriteHeader(http.StatusCreated)
	}))

	err := f.gateway.Register(context.Background(), gateway.Registration{UserName: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "", header.Load())
}

/*
TestGateway_MessageHeuristic checks the fallback unauthorized signal on a
non-401 failure.
*/
func TestGateway_MessageHeuristic(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(writer, http.StatusBadRequest, map[string]string{"message": "Token is not valid!"})
	}))
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, session.Session{Token: "T1", User: models.Profile{ID: "u1"}}))

	_, err := f.gateway.ListVideos(ctx, "")

	assert.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
	assert.False(t, f.store.Exists(ctx))
	assert.Equal(t, int32(1), f.navigation.Load())
}

/*
TestGateway_ErrorsPassThrough covers failures that must reach the caller
without touching the session.
*/
func TestGateway_ErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		code     string
		status   int
		message  string
		fallback string
	}{
		{
			name: "server_message",
			handler: func(writer http.ResponseWriter, _ *http.Request) {
				writeJSON(writer, http.StatusConflict, map[string]string{"message": "User already exists"})
			},
			code: apperr.CodeUpstream, status: http.StatusConflict, message: "User already exists",
		},
		{
			name: "no_body",
			handler: func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(http.StatusInternalServerError)
			},
			code: apperr.CodeUpstream, status: http.StatusInternalServerError, fallback: "Failed",
		},
		{
			name: "html_body",
			handler: func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(writer, "<html>bad gateway</html>")
			},
			code: apperr.CodeUpstream, status: http.StatusBadGateway, fallback: "Failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.handler)
			ctx := context.Background()
			require.NoError(t, f.store.Set(ctx, session.Session{Token: "T1", User: models.Profile{ID: "u1"}}))

			err := f.gateway.Register(ctx, gateway.Registration{UserName: "bob"})

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			assert.Equal(t, tt.status, ae.HTTPStatus)
			if tt.message != "" {
				assert.Equal(t, tt.message, apperr.MessageOr(err, "Failed"))
			} else {
				assert.Equal(t, tt.fallback, apperr.MessageOr(err, "Failed"))
			}
			assert.True(t, f.store.Exists(ctx), "non-auth failures keep the session")
			assert.Equal(t, int32(0), f.navigation.Load())
		})
	}
}

func TestGateway_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := gateway.NewClient(gateway.ClientConfig{BaseURL: server.URL, Logger: discard})
	require.NoError(t, err)
	manager := session.NewManager(session.NewMemoryStorage(), session.NewSlices(8), time.Hour, discard)

	_, err = client.Bind(manager.For("tab"), gateway.RequestNavigator).ListVideos(context.Background(), "")

	assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamUnavailable))
	assert.Equal(t, "Failed to upload video", apperr.MessageOr(err, "Failed to upload video"))
	assert.Error(t, client.Ping(context.Background()))
}

func TestGateway_UploadVideo(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/uploadVideo/u1", request.URL.Path)
		assert.Equal(t, "T1", request.Header.Get(constants.HeaderToken))

		file, header, err := request.FormFile("video")
		if !assert.NoError(t, err) {
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)

		assert.Equal(t, "clip.mp4", header.Filename)
		assert.Equal(t, "video/mp4", header.Header.Get("Content-Type"))
		assert.Equal(t, "frames", string(content))
		assert.Equal(t, "My clip", request.FormValue("title"))
		assert.Equal(t, "first", request.FormValue("description"))

		writeJSON(writer, http.StatusCreated, map[string]any{"data": map[string]any{"_id": "v1", "title": "My clip"}})
	}))
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, session.Session{Token: "T1", User: models.Profile{ID: "u1"}}))

	video, err := f.gateway.UploadVideo(ctx, "u1", gateway.VideoUpload{
		File:        gateway.File{Name: "clip.mp4", ContentType: "video/mp4", Body: strings.NewReader("frames")},
		Title:       "My clip",
		Description: "first",
	})

	require.NoError(t, err)
	assert.Equal(t, "v1", video.ID)
}

func TestGateway_UpdateProfile(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/profile/u1", request.URL.Path)
		if !assert.NoError(t, request.ParseMultipartForm(1<<20)) {
			writer.WriteHeader(http.StatusBadRequest)
			return
		}

		_, imageSent := request.MultipartForm.File["img"]
		assert.False(t, imageSent)
		assert.Equal(t, "hello", request.FormValue("bio"))

		writeJSON(writer, http.StatusOK, map[string]any{"user": map[string]any{"_id": "u1", "bio": "hello"}})
	}))

	patch, err := f.gateway.UpdateProfile(context.Background(), "u1", gateway.ProfileUpdate{Bio: pointer.To("hello")})

	require.NoError(t, err)
	require.NotNil(t, patch.Bio)
	assert.Equal(t, "hello", *patch.Bio)
	assert.Nil(t, patch.ImgURL, "empty imgUrl in the response is not merged")

	_, err = f.gateway.UpdateProfile(context.Background(), "u1", gateway.ProfileUpdate{})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestGateway_ListVideos(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"array", `{"data":[{"_id":"v1","title":"a","user":{"_id":"u1"}},{"_id":"v2","title":"b","user":{"_id":"u2"}}]}`, 2},
		{"not_an_array", `{"data":"nothing here"}`, 0},
		{"missing_data", `{}`, 0},
		{"null_data", `{"data":null}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, "/api/getVideos", request.URL.Path)
				writer.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(writer, tt.body)
			}))

			videos, err := f.gateway.ListVideos(context.Background(), "")
			require.NoError(t, err)
			assert.Len(t, videos, tt.want)
			assert.NotNil(t, videos)
		})
	}
}

func TestRequestNavigator_FiresTeardown(t *testing.T) {
	ctx, signal := ctxutil.WithTeardown(context.Background())

	gateway.RequestNavigator.ForceLogin(ctx)

	assert.True(t, signal.Fired())
}

func TestUnauthorized(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    bool
	}{
		{"status_401", http.StatusUnauthorized, "", true},
		{"message_on_400", http.StatusBadRequest, "Token is not valid", true},
		{"message_on_403_mixed_case", http.StatusForbidden, "TOKEN IS NOT VALID", true},
		{"message_on_success", http.StatusOK, "token is not valid", false},
		{"other_400", http.StatusBadRequest, "Title is required", false},
		{"server_error", http.StatusInternalServerError, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gateway.Unauthorized(tt.status, tt.message))
		})
	}
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := gateway.NewClient(gateway.ClientConfig{BaseURL: "not a url"})
	assert.Error(t, err)
}
