// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vidshare/internal/platform/constants"
)

// updateMaxRetries bounds optimistic-lock retries when two requests of the
// same tab race on an update.
const updateMaxRetries = 5

var takeScript = redis.NewScript(`
local value = redis.call('HGET', KEYS[1], ARGV[1])
if value then
	redis.call('HDEL', KEYS[1], ARGV[1])
end
return value
`)

// RedisStorage implements [Storage] as one Redis hash per tab, so every
// frontend instance sees the same sessions.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage creates a Redis-backed tab storage.
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (storage *RedisStorage) key(tabID string) string {
	return constants.RedisPrefixTab + tabID
}

/*
Load returns the present values among keys.

Parameters:
  - context: context.Context
  - tabID: string
  - keys: hash fields to read

Returns:
  - Record: present fields only
  - error: connectivity errors
*/
func (storage *RedisStorage) Load(ctx context.Context, tabID string, keys ...string) (Record, error) {
	values, err := storage.client.HMGet(ctx, storage.key(tabID), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_tab_load_failed: %w", err)
	}
	return toRecord(keys, values), nil
}

/*
Update runs fn inside a WATCH transaction on the tab's hash and retries when
a concurrent writer got there first.
*/
func (storage *RedisStorage) Update(ctx context.Context, tabID string, keys []string, ttl time.Duration, fn func(Record) (Record, error)) error {
	key := storage.key(tabID)

	transaction := func(tx *redis.Tx) error {
		values, err := tx.HMGet(ctx, key, keys...).Result()
		if err != nil {
			return fmt.Errorf("redis_tab_update_read_failed: %w", err)
		}

		next, err := fn(toRecord(keys, values))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			var removed []string
			var fields []any
			for _, field := range keys {
				if value, ok := next[field]; ok {
					fields = append(fields, field, value)
				} else {
					removed = append(removed, field)
				}
			}
			if len(removed) > 0 {
				pipe.HDel(ctx, key, removed...)
			}
			if len(fields) > 0 {
				pipe.HSet(ctx, key, fields...)
				pipe.Expire(ctx, key, ttl)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < updateMaxRetries; attempt++ {
		err := storage.client.Watch(ctx, transaction, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return fmt.Errorf("redis_tab_update_failed: exceeded %d retries", updateMaxRetries)
}

// Delete removes keys from the tab.
func (storage *RedisStorage) Delete(ctx context.Context, tabID string, keys ...string) error {
	if err := storage.client.HDel(ctx, storage.key(tabID), keys...).Err(); err != nil {
		return fmt.Errorf("redis_tab_delete_failed: %w", err)
	}
	return nil
}

// Put stores a single value and refreshes the expiry.
func (storage *RedisStorage) Put(ctx context.Context, tabID, field, value string, ttl time.Duration) error {
	key := storage.key(tabID)

	_, err := storage.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, value)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_tab_put_failed: %w", err)
	}
	return nil
}

// Take returns and removes a single value atomically.
func (storage *RedisStorage) Take(ctx context.Context, tabID, field string) (string, bool, error) {
	value, err := takeScript.Run(ctx, storage.client, []string{storage.key(tabID)}, field).Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_tab_take_failed: %w", err)
	}
	return value, true, nil
}

// Touch extends the tab's expiry. A missing hash is not an error.
func (storage *RedisStorage) Touch(ctx context.Context, tabID string, ttl time.Duration) error {
	if err := storage.client.Expire(ctx, storage.key(tabID), ttl).Err(); err != nil {
		return fmt.Errorf("redis_tab_touch_failed: %w", err)
	}
	return nil
}

func toRecord(keys []string, values []any) Record {
	record := Record{}
	for i, value := range values {
		if text, ok := value.(string); ok && i < len(keys) {
			record[keys[i]] = text
		}
	}
	return record
}
