// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns the client-side session: the pairing of an opaque API
token with the profile it authorizes, scoped to one browser tab.

Architecture:

  - Storage: tab-scoped key/value persistence (memory or Redis).
  - Store: the single writer. Get, Set, Clear and MergeUserFields are the only
    ways a session changes, and token and user always move together.
  - UserSlice: a read-only mirror of the current user, updated by the Store
    through a single action.

Consumers receive copies; nothing outside this package mutates a session.
*/
package session

import (
	"context"
	"time"

	"github.com/taibuivan/vidshare/internal/models"
	"github.com/taibuivan/vidshare/internal/platform/apperr"
	"github.com/taibuivan/vidshare/internal/platform/ctxkey"
)

// ErrNoSession is returned when an operation needs a session and the tab has none.
var ErrNoSession = apperr.NoSession()

// Session is an auth token together with the profile snapshot it authorizes.
type Session struct {
	Token string
	User  models.Profile
}

// valid reports whether both halves of the session are present.
func (s Session) valid() bool {
	return s.Token != "" && s.User.ID != ""
}

// # Storage Contract

// Record is a set of tab storage values keyed by name.
type Record map[string]string

// Storage is key/value storage scoped by browser tab.
//
// Every write refreshes the tab's expiry to the given TTL.
type Storage interface {
	// Load returns the present values among keys. Absent keys are omitted.
	Load(ctx context.Context, tabID string, keys ...string) (Record, error)

	// Update atomically replaces keys with the record returned by fn. Keys
	// missing from the returned record are deleted. An error from fn aborts
	// the update and is returned unchanged.
	Update(ctx context.Context, tabID string, keys []string, ttl time.Duration, fn func(current Record) (Record, error)) error

	// Delete removes keys from the tab.
	Delete(ctx context.Context, tabID string, keys ...string) error

	// Put stores a single value.
	Put(ctx context.Context, tabID, key, value string, ttl time.Duration) error

	// Take returns and removes a single value.
	Take(ctx context.Context, tabID, key string) (string, bool, error)

	// Touch extends the tab's expiry without changing values.
	Touch(ctx context.Context, tabID string, ttl time.Duration) error
}

// # Context

// NewContext returns a context carrying the tab's store.
func NewContext(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, store)
}

// FromContext returns the store installed by [NewContext], or nil.
func FromContext(ctx context.Context) *Store {
	store, _ := ctx.Value(ctxkey.KeySession).(*Store)
	return store
}
