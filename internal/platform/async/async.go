// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package async runs view operations through one explicit state machine.

Every network operation a screen performs goes Idle → Pending → Succeeded or
Failed. The runner guarantees, for all of them alike:

  - Re-entry guard: while an operation is Pending for a key, a second start is
    refused without running the call.
  - No cancellation: the call runs to completion even if the request that
    started it goes away.
  - Liveness: a result is applied only if its owner is still live.

Different keys are independent, so unrelated operations may overlap.
*/
package async

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/vidshare/internal/platform/apperr"
)

// # State

// Phase is the state of one operation.
type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the outcome of [Run].
//
// Pending means the start was refused because the same key was already in
// flight; nothing was executed. Stale is set when the call finished but its
// owner was no longer live, so Apply was skipped.
type State[T any] struct {
	Phase Phase
	Value T
	Err   error
	Stale bool
}

// # Keys

// Key identifies one operation of one owner (e.g. a tab's video upload).
type Key struct {
	Owner     string
	Operation string
}

// String renders the key for logs and lock names.
func (k Key) String() string {
	return k.Owner + ":" + k.Operation
}

// # Task

// Task describes one run of an operation.
type Task[T any] struct {
	Key Key

	// Call performs the network operation.
	Call func(ctx context.Context) (T, error)

	// Live reports whether the owner can still accept the result. Nil means
	// always live.
	Live func(ctx context.Context) bool

	// Apply updates owner state with a successful result. It runs only when
	// Live holds; an error from Apply turns the run into Failed.
	Apply func(ctx context.Context, value T) error
}

// # Runner

// Runner executes tasks with a per-key re-entry guard.
type Runner struct {
	tracker Tracker
	lease   time.Duration
	logger  *slog.Logger
}

// NewRunner constructs a [Runner]. lease bounds how long a crashed holder
// can keep a key Pending.
func NewRunner(tracker Tracker, lease time.Duration, logger *slog.Logger) *Runner {
	return &Runner{tracker: tracker, lease: lease, logger: logger}
}

// Status reports whether key is currently Pending.
func (runner *Runner) Status(ctx context.Context, key Key) Phase {
	active, err := runner.tracker.Active(ctx, key)
	if err != nil {
		runner.logger.WarnContext(ctx, "operation_status_unknown", slog.String("operation", key.String()), slog.Any("error", err))
		return Idle
	}
	if active {
		return Pending
	}
	return Idle
}

/*
Run executes task unless the same key is already Pending.

The call is detached from ctx cancellation: once started it always runs to
completion, and the guard is released afterwards.
*/
func Run[T any](ctx context.Context, runner *Runner, task Task[T]) State[T] {
	logger := runner.logger.With(slog.String("operation", task.Key.String()))

	release, acquired, err := runner.tracker.Begin(ctx, task.Key, runner.lease)
	if err != nil {
		logger.ErrorContext(ctx, "operation_guard_failed", slog.Any("error", err))
		return State[T]{Phase: Failed, Err: apperr.Internal(err)}
	}
	if !acquired {
		logger.InfoContext(ctx, "operation_reentry_refused")
		return State[T]{Phase: Pending, Err: apperr.InFlight(task.Key.Operation)}
	}

	detached := context.WithoutCancel(ctx)
	defer release(detached)

	started := time.Now()
	value, err := task.Call(detached)
	if err != nil {
		logger.InfoContext(ctx, "operation_failed",
			slog.Int64("latency_ms", time.Since(started).Milliseconds()),
			slog.Any("error", err),
		)
		return State[T]{Phase: Failed, Err: err}
	}

	if task.Live != nil && !task.Live(detached) {
		logger.InfoContext(ctx, "operation_result_discarded")
		return State[T]{Phase: Succeeded, Value: value, Stale: true}
	}

	if task.Apply != nil {
		if err := task.Apply(detached, value); err != nil {
			logger.WarnContext(ctx, "operation_apply_failed", slog.Any("error", err))
			return State[T]{Phase: Failed, Err: err}
		}
	}

	logger.InfoContext(ctx, "operation_succeeded", slog.Int64("latency_ms", time.Since(started).Milliseconds()))
	return State[T]{Phase: Succeeded, Value: value}
}
