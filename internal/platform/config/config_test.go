// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidshare/internal/platform/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestLoad_Defaults verifies defaults are applied when only required vars are set.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"API_BASE_URL":   "http://api.local:4000",
		"SESSION_SECRET": testSecret,
	})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UsesRedis())
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(32<<20), cfg.MultipartMemory)
	assert.Empty(t, cfg.TrustedProxies)
}

/*
TestLoad_Invalid covers the validation rules applied after parsing.
*/
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing_base_url", map[string]string{"SESSION_SECRET": testSecret}},
		{"relative_base_url", map[string]string{"API_BASE_URL": "/api", "SESSION_SECRET": testSecret}},
		{"short_secret", map[string]string{"API_BASE_URL": "http://api", "SESSION_SECRET": "short"}},
		{"bad_block_key", map[string]string{"API_BASE_URL": "http://api", "SESSION_SECRET": testSecret, "SESSION_BLOCK_KEY": "abc"}},
		{"memory_above_max", map[string]string{"API_BASE_URL": "http://api", "SESSION_SECRET": testSecret, "MAX_UPLOAD_BYTES": "10", "MULTIPART_MEMORY": "20"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFrom(tt.vars)
			assert.Error(t, err)
		})
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"API_BASE_URL":    "http://api.local",
		"SESSION_SECRET":  testSecret,
		"TRUSTED_PROXIES": "10.0.0.0/8,192.0.2.10",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.TrustedProxies)
}

func TestLoad_Redis(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"API_BASE_URL":   "https://api.example.com",
		"SESSION_SECRET": testSecret,
		"REDIS_URL":      "redis://localhost:6379/0",
		"ENVIRONMENT":    "production",
	})
	require.NoError(t, err)

	assert.True(t, cfg.UsesRedis())
	assert.True(t, cfg.IsProduction())
}
