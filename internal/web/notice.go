// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/internal/session"
)

// NoticeKind selects how a notice is styled.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the outcome of the last operation, shown once on the next page.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Notices keeps at most one unacknowledged notice per tab.
type Notices struct {
	storage session.Storage
	ttl     time.Duration
}

// NewNotices constructs [Notices] over the tab storage.
func NewNotices(storage session.Storage, ttl time.Duration) *Notices {
	return &Notices{storage: storage, ttl: ttl}
}

// Push replaces the tab's notice.
func (notices *Notices) Push(ctx context.Context, tabID string, notice Notice) error {
	encoded, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("notice_encode_failed: %w", err)
	}
	return notices.storage.Put(ctx, tabID, constants.StorageKeyNotice, string(encoded), notices.ttl)
}

// Pop returns and acknowledges the tab's notice, or nil when there is none.
func (notices *Notices) Pop(ctx context.Context, tabID string) (*Notice, error) {
	raw, ok, err := notices.storage.Take(ctx, tabID, constants.StorageKeyNotice)
	if err != nil || !ok {
		return nil, err
	}

	var notice Notice
	if err := json.Unmarshal([]byte(raw), &notice); err != nil {
		return nil, fmt.Errorf("notice_decode_failed: %w", err)
	}
	return &notice, nil
}

// Dismiss acknowledges the tab's notice without showing it.
func (notices *Notices) Dismiss(ctx context.Context, tabID string) error {
	return notices.storage.Delete(ctx, tabID, constants.StorageKeyNotice)
}
