// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, cookie and header names, and the
storage key taxonomy shared between the gateway, the session layer and the
web controllers.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: Tab cookie, storage keys and upstream credential header.
  - Routes: Browser-facing paths used for redirects.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "vidshare-web"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Uploads stream through this server, so it is generous.
	DefaultReadTimeout = 10 * time.Minute

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Minute

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 5 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// ReadinessProbeTimeout bounds each dependency check behind /ready.
	ReadinessProbeTimeout = 3 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// StorageSweepInterval is how often expired tabs leave in-memory storage.
	StorageSweepInterval = 1 * time.Minute
)

// # Session

const (
	// TabCookieName carries the signed tab identifier. It has no expiry so the
	// browser drops it when the browsing session ends.
	TabCookieName = "vs_tab"

	// HeaderToken is the custom request header carrying the session token
	// to the remote API. It is deliberately not Authorization.
	HeaderToken = "Token"

	// StorageKeyToken and StorageKeyUser are the two tab storage keys that
	// together form a session.
	StorageKeyToken = "token"
	StorageKeyUser  = "user"

	// StorageKeyNotice holds the unacknowledged outcome of the last operation.
	StorageKeyNotice = "notice"

	// InvalidTokenMessage is matched (lowercased, substring) against upstream
	// error messages as a fallback unauthorized signal.
	InvalidTokenMessage = "token is not valid"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderContentType   = "Content-Type"
)

// # Routes

const (
	RouteHome       = "/"
	RouteLogin      = "/login"
	RouteSignup     = "/signup"
	RouteLogout     = "/logout"
	RouteListing    = "/listing"
	RouteUserVideos = "/user-videos"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixTab       = "vidshare:tab:"
	RedisPrefixOperation = "vidshare:op:"
)
