// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// Using a private, unexported type for keys prevents collisions with third-party
// packages that might also use context for storage.
package ctxkey

type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyClientIP is the context key for the resolved client address.
	KeyClientIP key = "client_ip"

	// KeyTabID is the context key for the browser tab identifier.
	KeyTabID key = "tab_id"

	// KeyTeardown is the context key for the per-request forced-logout signal.
	KeyTeardown key = "teardown"

	// KeySession is the context key for the tab's session store.
	KeySession key = "session"
)
