package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Empty(t, cfg.AdminToken)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(map[string]string{
		"KEYSTORE_ADDR":             "127.0.0.1:9000",
		"KEYSTORE_LOG_LEVEL":        "debug",
		"KEYSTORE_SHUTDOWN_TIMEOUT": "3s",
		"KEYSTORE_MAX_BODY_BYTES":   "2048",
		"KEYSTORE_ADMIN_TOKEN":      "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(2048), cfg.MaxBodyBytes)
	assert.Equal(t, "secret", cfg.AdminToken)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := map[string]string{
		"KEYSTORE_LOG_LEVEL":        "loud",
		"KEYSTORE_SHUTDOWN_TIMEOUT": "soon",
		"KEYSTORE_MAX_BODY_BYTES":   "big",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := fromLookup(lookupFrom(map[string]string{key: val}))
			assert.ErrorContains(t, err, key)
		})
	}
}
