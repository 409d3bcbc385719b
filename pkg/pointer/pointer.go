// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional values expressed as pointers.

Partial updates (e.g. a profile patch) use a nil pointer for "leave unchanged",
so these helpers keep call sites free of temporary variables.
*/
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// NonZero returns a pointer to v, or nil when v is the zero value. It turns
// "field absent or empty in a response" into "not part of the patch".
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// Fallback safely dereferences a pointer.
// If the pointer is nil, it returns the provided fallback value instead.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
