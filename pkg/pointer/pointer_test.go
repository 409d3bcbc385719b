// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidshare/pkg/pointer"
)

func TestNonZero(t *testing.T) {
	assert.Nil(t, pointer.NonZero(""))
	assert.Nil(t, pointer.NonZero(0))

	p := pointer.NonZero("https://cdn/img.png")
	if assert.NotNil(t, p) {
		assert.Equal(t, "https://cdn/img.png", *p)
	}
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "x", pointer.Fallback(nil, "x"))
	assert.Equal(t, "y", pointer.Fallback(pointer.To("y"), "x"))
}
