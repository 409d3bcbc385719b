// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/taibuivan/vidshare/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Client Address

// WithClientIP returns a new context carrying the resolved client address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClientIP, ip)
}

// GetClientIP retrieves the resolved client address, or "" when unresolved.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxkey.KeyClientIP).(string)
	return ip
}

// # Browser Tab

// WithTabID returns a new context carrying the browser tab identifier.
func WithTabID(ctx context.Context, tabID string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyTabID, tabID)
}

// GetTabID retrieves the tab identifier, or "" outside a tab-scoped request.
func GetTabID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyTabID).(string)
	return id
}

// # Forced Logout

// Teardown records that the session was torn down while serving a request.
// It is safe for concurrent use.
type Teardown struct {
	fired atomic.Bool
}

// Fire marks the request as torn down.
func (t *Teardown) Fire() { t.fired.Store(true) }

// Fired reports whether [Teardown.Fire] was called.
func (t *Teardown) Fired() bool { return t.fired.Load() }

// WithTeardown attaches a fresh teardown signal to the context.
func WithTeardown(ctx context.Context) (context.Context, *Teardown) {
	signal := &Teardown{}
	return context.WithValue(ctx, ctxkey.KeyTeardown, signal), signal
}

// FireTeardown marks the request in ctx as torn down. It reports false when
// no signal is installed.
func FireTeardown(ctx context.Context) bool {
	signal, ok := ctx.Value(ctxkey.KeyTeardown).(*Teardown)
	if !ok {
		return false
	}
	signal.Fire()
	return true
}
