// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/vidshare/internal/platform/apperr"
	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/internal/platform/ctxutil"
	"github.com/taibuivan/vidshare/internal/session"
)

// Gateway is a [Client] bound to one tab's session.
type Gateway struct {
	client    *Client
	store     *session.Store
	navigator Navigator
}

// outgoing is one request to the remote API.
type outgoing struct {
	method      string
	segments    []string
	body        io.Reader
	contentType string
}

// errorBody is the failure shape returned by the remote API.
type errorBody struct {
	Message string `json:"message"`
}

/*
send executes request and decodes a 2xx body into out when out is non-nil
and the body is non-empty.

Returns:
  - [apperr.SessionExpired] after a forced logout
  - [apperr.Upstream] for any other non-2xx response
  - [apperr.UpstreamUnavailable] when no response was received
*/
func (g *Gateway) send(ctx context.Context, request outgoing, out any) error {
	target := g.client.endpoint(request.segments...)
	logger := g.client.logger.With(
		slog.String("request_id", ctxutil.GetRequestID(ctx)),
		slog.String("tab_id", g.store.TabID()),
		slog.String("method", request.method),
		slog.String("upstream_path", strings.TrimPrefix(target, g.client.baseURL)),
	)

	httpRequest, err := http.NewRequestWithContext(ctx, request.method, target, request.body)
	if err != nil {
		if closer, ok := request.body.(io.Closer); ok {
			_ = closer.Close()
		}
		return apperr.Internal(fmt.Errorf("gateway_request_build_failed: %w", err))
	}
	httpRequest.Header.Set("Accept", "application/json")
	if request.contentType != "" {
		httpRequest.Header.Set(constants.HeaderContentType, request.contentType)
	}
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		httpRequest.Header.Set(constants.HeaderXRequestID, requestID)
	}

	// 1. Attach the credential only when a session exists
	current, err := g.store.Get(ctx)
	switch {
	case err == nil:
		httpRequest.Header.Set(constants.HeaderToken, current.Token)
	case !errors.Is(err, session.ErrNoSession):
		logger.WarnContext(ctx, "gateway_session_unreadable", slog.Any("error", err))
	}

	// 2. Round trip
	started := time.Now()
	response, err := g.client.httpClient.Do(httpRequest)
	if err != nil {
		logger.WarnContext(ctx, "gateway_request_failed", slog.Any("error", err))
		return apperr.UpstreamUnavailable(err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		logger.WarnContext(ctx, "gateway_response_unreadable", slog.Int("status", response.StatusCode), slog.Any("error", err))
		return apperr.UpstreamUnavailable(err)
	}

	logger.DebugContext(ctx, "gateway_request_finished",
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(started).Milliseconds()),
	)

	// 3. Success
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return apperr.Internal(fmt.Errorf("gateway_decode_failed: %w", err))
		}
		return nil
	}

	// 4. Failure: the body is optional and may not be JSON
	var failure errorBody
	_ = json.Unmarshal(raw, &failure)

	if Unauthorized(response.StatusCode, failure.Message) {
		g.teardown(ctx, logger, response.StatusCode)
		return apperr.SessionExpired(apperr.Upstream(response.StatusCode, failure.Message))
	}

	return apperr.Upstream(response.StatusCode, failure.Message)
}

// teardown clears the session and forces navigation to the login page.
func (g *Gateway) teardown(ctx context.Context, logger *slog.Logger, status int) {
	if err := g.store.Clear(context.WithoutCancel(ctx)); err != nil {
		logger.ErrorContext(ctx, "session_teardown_failed", slog.Any("error", err))
	}
	logger.InfoContext(ctx, "session_torn_down", slog.Int("status", status))
	g.navigator.ForceLogin(ctx)
}

/*
Unauthorized reports whether a failed response means the session token is no
longer accepted.

Status 401 is authoritative. A message containing "token is not valid"
(case-insensitive) on any other failure is a best-effort fallback that depends
on the remote API's wording.
*/
func Unauthorized(status int, message string) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	if status >= 200 && status < 300 {
		return false
	}
	return strings.Contains(strings.ToLower(message), constants.InvalidTokenMessage)
}

// jsonBody encodes payload for a JSON request.
func jsonBody(payload any) (io.Reader, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("gateway_encode_failed: %w", err))
	}
	return bytes.NewReader(encoded), nil
}
