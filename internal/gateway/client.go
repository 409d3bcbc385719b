// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gateway is the single egress point to the remote video API.

A [Client] holds the base URL and the one shared HTTP transport. A [Gateway]
is that client bound to one tab's session store and a [Navigator]:

  - Request path: the tab's token, when a session exists, travels in the
    Token header. Without a session the request is sent unauthenticated.
  - Response path: an unauthorized response clears the session and forces
    navigation to the login page before the caller sees the error.

Every other failure is passed through to the caller as an [apperr.AppError]
carrying the server's message, which may be empty.
*/
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/vidshare/internal/platform/ctxutil"
	"github.com/taibuivan/vidshare/internal/session"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// # Navigation

// Navigator performs the full-page redirect that follows a forced logout.
type Navigator interface {
	ForceLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context)

// ForceLogin calls f.
func (f NavigatorFunc) ForceLogin(ctx context.Context) { f(ctx) }

// RequestNavigator signals the teardown middleware of the request carried by
// ctx, which replaces the response with a redirect to the login page.
var RequestNavigator Navigator = NavigatorFunc(func(ctx context.Context) {
	ctxutil.FireTeardown(ctx)
})

// # Client

// ClientConfig holds configuration for creating a [Client].
type ClientConfig struct {
	// BaseURL is the remote API root (e.g. "http://localhost:5000/api").
	BaseURL string
	// Timeout of zero leaves requests unbounded.
	Timeout time.Duration
	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client is the unauthenticated remote API client shared by every tab.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a [Client].
func NewClient(config ClientConfig) (*Client, error) {
	parsed, err := url.Parse(config.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("gateway: invalid base URL %q", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Bind returns a gateway that authenticates as store's session and reports
// forced logouts to navigator.
func (c *Client) Bind(store *session.Store, navigator Navigator) *Gateway {
	return &Gateway{client: c, store: store, navigator: navigator}
}

// Ping checks that the remote API answers HTTP at all. Any status counts as
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("gateway_ping_failed: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("gateway_ping_failed: %w", err)
	}
	_ = response.Body.Close()
	return nil
}

// endpoint joins path segments onto the base URL, escaping each one.
func (c *Client) endpoint(segments ...string) string {
	var builder strings.Builder
	builder.WriteString(c.baseURL)
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(segment))
	}
	return builder.String()
}
