// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidshare/pkg/slice"
)

/*
TestGroupBy_FirstSeenOrder checks that groups follow first appearance and
items keep their relative order.
*/
func TestGroupBy_FirstSeenOrder(t *testing.T) {
	input := []string{"a1", "b1", "a2", "c1", "b2", "a3"}

	groups := slice.GroupBy(input, func(s string) string { return s[:1] })

	assert.Equal(t, []slice.Group[string, string]{
		{Key: "a", Items: []string{"a1", "a2", "a3"}},
		{Key: "b", Items: []string{"b1", "b2"}},
		{Key: "c", Items: []string{"c1"}},
	}, groups)
}

func TestGroupBy_Empty(t *testing.T) {
	assert.Empty(t, slice.GroupBy([]int(nil), func(i int) int { return i }))
}

func TestMapFilterTake(t *testing.T) {
	upper := slice.Map([]string{"a", "b"}, strings.ToUpper)
	assert.Equal(t, []string{"A", "B"}, upper)

	even := slice.Filter([]int{1, 2, 3, 4}, func(i int) bool { return i%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)

	assert.Equal(t, []int{1, 2}, slice.Take([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1}, slice.Take([]int{1}, 5))
	assert.Empty(t, slice.Take([]int{1}, -1))
}
