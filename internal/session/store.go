// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/vidshare/internal/models"
	"github.com/taibuivan/vidshare/internal/platform/constants"
)

var sessionKeys = []string{constants.StorageKeyToken, constants.StorageKeyUser}

// Manager hands out tab-bound stores that share one storage backend and one
// slice registry.
type Manager struct {
	storage Storage
	slices  *Slices
	ttl     time.Duration
	logger  *slog.Logger
}

// NewManager constructs a [Manager]. ttl is the idle expiry of tab storage.
func NewManager(storage Storage, slices *Slices, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{storage: storage, slices: slices, ttl: ttl, logger: logger}
}

// For returns the store for one tab.
func (manager *Manager) For(tabID string) *Store {
	return &Store{
		tabID:   tabID,
		storage: manager.storage,
		slice:   manager.slices.For(tabID),
		ttl:     manager.ttl,
		logger:  manager.logger.With(slog.String("tab_id", tabID)),
	}
}

// Storage exposes the backend so view state can share the tab's storage.
func (manager *Manager) Storage() Storage {
	return manager.storage
}

// Store is the single writer of one tab's session.
//
// After every call the tab holds either both token and user or neither, and
// the tab's [UserSlice] mirrors the stored user.
type Store struct {
	tabID   string
	storage Storage
	slice   *UserSlice
	ttl     time.Duration
	logger  *slog.Logger
}

// TabID returns the tab this store is bound to.
func (store *Store) TabID() string {
	return store.tabID
}

// Slice returns the tab's read-only user mirror.
func (store *Store) Slice() *UserSlice {
	return store.slice
}

/*
Get returns the current session.

A record with only one half present, or an undecodable user, is treated as
no session and cleared so the invariant is restored.

Returns:
  - Session: copy of the stored session
  - error: [ErrNoSession] when logged out, or storage errors
*/
func (store *Store) Get(ctx context.Context) (Session, error) {
	record, err := store.storage.Load(ctx, store.tabID, sessionKeys...)
	if err != nil {
		return Session{}, fmt.Errorf("session_load_failed: %w", err)
	}

	current, ok := decode(record)
	if !ok {
		if len(record) > 0 {
			store.logger.WarnContext(ctx, "session_record_repaired", slog.Int("present_keys", len(record)))
			if err := store.Clear(ctx); err != nil {
				return Session{}, err
			}
		}
		store.slice.Dispatch(SetUser(nil))
		return Session{}, ErrNoSession
	}

	if err := store.storage.Touch(ctx, store.tabID, TokenTTL(current.Token, store.ttl, time.Now())); err != nil {
		store.logger.WarnContext(ctx, "session_touch_failed", slog.Any("error", err))
	}

	store.slice.Dispatch(SetUser(&current.User))
	return current, nil
}

// Exists reports whether the tab has a session. Storage failures count as
// no session.
func (store *Store) Exists(ctx context.Context) bool {
	_, err := store.Get(ctx)
	return err == nil
}

// Set replaces the session with both fields at once.
func (store *Store) Set(ctx context.Context, next Session) error {
	if !next.valid() {
		return fmt.Errorf("session_set_rejected: token and user id are both required")
	}

	encoded, err := json.Marshal(next.User)
	if err != nil {
		return fmt.Errorf("session_encode_failed: %w", err)
	}

	ttl := TokenTTL(next.Token, store.ttl, time.Now())
	err = store.storage.Update(ctx, store.tabID, sessionKeys, ttl, func(Record) (Record, error) {
		return Record{
			constants.StorageKeyToken: next.Token,
			constants.StorageKeyUser:  string(encoded),
		}, nil
	})
	if err != nil {
		return fmt.Errorf("session_set_failed: %w", err)
	}

	store.slice.Dispatch(SetUser(&next.User))
	store.logger.InfoContext(ctx, "session_established", slog.String("user_id", next.User.ID))
	return nil
}

// Clear removes both fields.
func (store *Store) Clear(ctx context.Context) error {
	if err := store.storage.Delete(ctx, store.tabID, sessionKeys...); err != nil {
		return fmt.Errorf("session_clear_failed: %w", err)
	}

	store.slice.Dispatch(SetUser(nil))
	return nil
}

/*
MergeUserFields replaces the patched fields of the stored user and
re-persists the whole session. The token is untouched and the expiry stays
capped by it, as in [Store.Set].

Returns:
  - models.Profile: the merged user
  - error: [ErrNoSession] when there is no session to merge into, or the
    session was replaced by another login while merging
*/
func (store *Store) MergeUserFields(ctx context.Context, patch models.ProfilePatch) (models.Profile, error) {
	record, err := store.storage.Load(ctx, store.tabID, constants.StorageKeyToken)
	if err != nil {
		return models.Profile{}, fmt.Errorf("session_load_failed: %w", err)
	}
	token := record[constants.StorageKeyToken]
	if token == "" {
		return models.Profile{}, ErrNoSession
	}

	var merged models.Profile
	ttl := TokenTTL(token, store.ttl, time.Now())

	err = store.storage.Update(ctx, store.tabID, sessionKeys, ttl, func(record Record) (Record, error) {
		current, ok := decode(record)
		if !ok || current.Token != token {
			return nil, ErrNoSession
		}

		merged = patch.Apply(current.User)
		encoded, err := json.Marshal(merged)
		if err != nil {
			return nil, fmt.Errorf("session_encode_failed: %w", err)
		}

		return Record{
			constants.StorageKeyToken: current.Token,
			constants.StorageKeyUser:  string(encoded),
		}, nil
	})
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return models.Profile{}, ErrNoSession
		}
		return models.Profile{}, fmt.Errorf("session_merge_failed: %w", err)
	}

	store.slice.Dispatch(SetUser(&merged))
	return merged, nil
}

// IsCurrent reports whether the tab still holds the session identified by
// token. Results computed for a torn-down or replaced session must not be
// applied.
func (store *Store) IsCurrent(ctx context.Context, token string) bool {
	current, err := store.Get(ctx)
	return err == nil && current.Token == token
}

func decode(record Record) (Session, bool) {
	token := record[constants.StorageKeyToken]
	raw := record[constants.StorageKeyUser]
	if token == "" || raw == "" {
		return Session{}, false
	}

	var user models.Profile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return Session{}, false
	}

	decoded := Session{Token: token, User: user}
	return decoded, decoded.valid()
}
