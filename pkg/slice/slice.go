// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice compliments the standard [slices] package by providing functional
programming utilities (Map, Filter, GroupBy) leveraging generics.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter filters a slice, returning only elements where the predicate function evaluates to true.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// Group is one bucket produced by [GroupBy].
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy buckets input by key. Groups appear in the order their key was
// first seen and items keep their input order within a group.
func GroupBy[K comparable, T any](input []T, key func(T) K) []Group[K, T] {
	var groups []Group[K, T]
	index := make(map[K]int)

	for _, v := range input {
		k := key(v)
		position, seen := index[k]
		if !seen {
			position = len(groups)
			index[k] = position
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[position].Items = append(groups[position].Items, v)
	}

	return groups
}

// Take returns at most n leading elements of input.
func Take[T any](input []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(input) <= n {
		return input
	}
	return input[:n]
}
