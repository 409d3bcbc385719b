// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidshare/internal/platform/ctxutil"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

func TestContext_TabID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetTabID(ctx))

	ctx = ctxutil.WithTabID(ctx, "tab-1")
	assert.Equal(t, "tab-1", ctxutil.GetTabID(ctx))
}

/*
TestContext_Teardown verifies the forced-logout signal round trip.
*/
func TestContext_Teardown(t *testing.T) {
	assert.False(t, ctxutil.FireTeardown(context.Background()))

	ctx, signal := ctxutil.WithTeardown(context.Background())
	assert.False(t, signal.Fired())

	assert.True(t, ctxutil.FireTeardown(ctx))
	assert.True(t, signal.Fired())
}
