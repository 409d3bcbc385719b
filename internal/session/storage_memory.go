// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
	"time"
)

type memoryTab struct {
	values  Record
	expires time.Time
}

// MemoryStorage implements [Storage] in process memory. It is the default
// backend for single-instance deployments and tests.
type MemoryStorage struct {
	mu   sync.Mutex
	tabs map[string]*memoryTab
	now  func() time.Time
}

// NewMemoryStorage returns an empty in-memory tab storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{tabs: make(map[string]*memoryTab), now: time.Now}
}

// live returns the tab if present and unexpired. Callers hold mu.
func (storage *MemoryStorage) live(tabID string) *memoryTab {
	tab, ok := storage.tabs[tabID]
	if !ok {
		return nil
	}
	if storage.now().After(tab.expires) {
		delete(storage.tabs, tabID)
		return nil
	}
	return tab
}

func (storage *MemoryStorage) ensure(tabID string, ttl time.Duration) *memoryTab {
	tab := storage.live(tabID)
	if tab == nil {
		tab = &memoryTab{values: Record{}}
		storage.tabs[tabID] = tab
	}
	tab.expires = storage.now().Add(ttl)
	return tab
}

// Load returns the present values among keys.
func (storage *MemoryStorage) Load(_ context.Context, tabID string, keys ...string) (Record, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	result := Record{}
	tab := storage.live(tabID)
	if tab == nil {
		return result, nil
	}
	for _, key := range keys {
		if value, ok := tab.values[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

// Update applies fn under the storage lock.
func (storage *MemoryStorage) Update(_ context.Context, tabID string, keys []string, ttl time.Duration, fn func(Record) (Record, error)) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	current := Record{}
	if tab := storage.live(tabID); tab != nil {
		for _, key := range keys {
			if value, ok := tab.values[key]; ok {
				current[key] = value
			}
		}
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	tab := storage.ensure(tabID, ttl)
	for _, key := range keys {
		if value, ok := next[key]; ok {
			tab.values[key] = value
		} else {
			delete(tab.values, key)
		}
	}
	return nil
}

// Delete removes keys from the tab.
func (storage *MemoryStorage) Delete(_ context.Context, tabID string, keys ...string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	if tab := storage.live(tabID); tab != nil {
		for _, key := range keys {
			delete(tab.values, key)
		}
	}
	return nil
}

// Put stores a single value.
func (storage *MemoryStorage) Put(_ context.Context, tabID, key, value string, ttl time.Duration) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	storage.ensure(tabID, ttl).values[key] = value
	return nil
}

// Take returns and removes a single value.
func (storage *MemoryStorage) Take(_ context.Context, tabID, key string) (string, bool, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	tab := storage.live(tabID)
	if tab == nil {
		return "", false, nil
	}
	value, ok := tab.values[key]
	delete(tab.values, key)
	return value, ok, nil
}

// Touch extends the tab's expiry.
func (storage *MemoryStorage) Touch(_ context.Context, tabID string, ttl time.Duration) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	if tab := storage.live(tabID); tab != nil {
		tab.expires = storage.now().Add(ttl)
	}
	return nil
}

// Sweep drops expired tabs and returns how many were removed.
func (storage *MemoryStorage) Sweep() int {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	removed := 0
	now := storage.now()
	for id, tab := range storage.tabs {
		if now.After(tab.expires) {
			delete(storage.tabs, id)
			removed++
		}
	}
	return removed
}

// Janitor sweeps expired tabs every interval until ctx is done.
func (storage *MemoryStorage) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			storage.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
