// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/taibuivan/vidshare/internal/models"
)

// # User Slice

// Action is the only way to change a [UserSlice].
type Action struct {
	user *models.Profile
}

// SetUser replaces the mirrored user. A nil profile means logged out.
func SetUser(user *models.Profile) Action {
	if user == nil {
		return Action{}
	}
	snapshot := *user
	return Action{user: &snapshot}
}

// UserSlice is a single-field container mirroring "currently logged in user"
// for one tab. Only the tab's [Store] dispatches to it.
type UserSlice struct {
	mu   sync.RWMutex
	user *models.Profile
}

// Dispatch applies an action.
func (slice *UserSlice) Dispatch(action Action) {
	slice.mu.Lock()
	slice.user = action.user
	slice.mu.Unlock()
}

// Snapshot returns a copy of the current user and whether one is set.
func (slice *UserSlice) Snapshot() (models.Profile, bool) {
	slice.mu.RLock()
	defer slice.mu.RUnlock()

	if slice.user == nil {
		return models.Profile{}, false
	}
	return *slice.user, true
}

// # Registry

// Slices keeps one [UserSlice] per tab, evicting the least recently used tab
// once capacity is reached. An evicted slice is rebuilt from storage on the
// tab's next request.
type Slices struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewSlices constructs a registry holding at most capacity tabs.
func NewSlices(capacity int) *Slices {
	return &Slices{cache: lru.New(capacity)}
}

// For returns the slice for tabID, creating it on first use.
func (registry *Slices) For(tabID string) *UserSlice {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if existing, ok := registry.cache.Get(tabID); ok {
		return existing.(*UserSlice)
	}

	created := &UserSlice{}
	registry.cache.Add(tabID, created)
	return created
}

// Len reports the number of tabs currently tracked.
func (registry *Slices) Len() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.cache.Len()
}
