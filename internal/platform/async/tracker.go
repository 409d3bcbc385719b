// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package async

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vidshare/internal/platform/constants"
)

// Release ends a Pending period started by [Tracker.Begin].
type Release func(ctx context.Context)

// Tracker records which keys are Pending.
type Tracker interface {
	// Begin marks key Pending for at most lease. acquired is false when the
	// key is already Pending.
	Begin(ctx context.Context, key Key, lease time.Duration) (release Release, acquired bool, err error)

	// Active reports whether key is Pending.
	Active(ctx context.Context, key Key) (bool, error)
}

// # In-memory Tracker

type memoryLease struct {
	holder  string
	expires time.Time
}

// MemoryTracker tracks Pending keys in process memory.
type MemoryTracker struct {
	mu     sync.Mutex
	leases map[Key]memoryLease
	now    func() time.Time
}

// NewMemoryTracker constructs an empty [MemoryTracker].
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{leases: make(map[Key]memoryLease), now: time.Now}
}

// Begin acquires key unless an unexpired lease exists.
func (tracker *MemoryTracker) Begin(_ context.Context, key Key, lease time.Duration) (Release, bool, error) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	now := tracker.now()
	if existing, ok := tracker.leases[key]; ok && now.Before(existing.expires) {
		return nil, false, nil
	}

	holder := uuid.NewString()
	tracker.leases[key] = memoryLease{holder: holder, expires: now.Add(lease)}

	return func(context.Context) {
		tracker.mu.Lock()
		defer tracker.mu.Unlock()
		if current, ok := tracker.leases[key]; ok && current.holder == holder {
			delete(tracker.leases, key)
		}
	}, true, nil
}

// Active reports whether key holds an unexpired lease.
func (tracker *MemoryTracker) Active(_ context.Context, key Key) (bool, error) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	existing, ok := tracker.leases[key]
	return ok && tracker.now().Before(existing.expires), nil
}

// # Redis Tracker

// releaseScript deletes the lease only if the caller still holds it, so an
// expired holder cannot release a newer holder's lease.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisTracker tracks Pending keys with SET NX PX so the guard holds across
// frontend instances.
type RedisTracker struct {
	client *redis.Client
}

// NewRedisTracker constructs a Redis-backed [Tracker].
func NewRedisTracker(client *redis.Client) *RedisTracker {
	return &RedisTracker{client: client}
}

func (tracker *RedisTracker) key(key Key) string {
	return constants.RedisPrefixOperation + key.String()
}

// Begin acquires key with a conditional set.
func (tracker *RedisTracker) Begin(ctx context.Context, key Key, lease time.Duration) (Release, bool, error) {
	holder := uuid.NewString()
	name := tracker.key(key)

	acquired, err := tracker.client.SetNX(ctx, name, holder, lease).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis_operation_begin_failed: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}

	return func(ctx context.Context) {
		_ = releaseScript.Run(ctx, tracker.client, []string{name}, holder).Err()
	}, true, nil
}

// Active reports whether the lease key exists.
func (tracker *RedisTracker) Active(ctx context.Context, key Key) (bool, error) {
	count, err := tracker.client.Exists(ctx, tracker.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_operation_status_failed: %w", err)
	}
	return count > 0, nil
}
