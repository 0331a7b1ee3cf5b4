package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverlaysSetVariablesOnly(t *testing.T) {
	t.Setenv("CAPSULE_REQUEST_TIMEOUT", "42s")
	t.Setenv("CAPSULE_MAX_PARALLEL_UPLOADS", "6")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 6, cfg.MaxParallelUploads)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, "timecapsule.db", cfg.DatabasePath)
}

func TestParseEnv_BypassTokenOnlyInDev(t *testing.T) {
	t.Setenv("CAPSULE_BYPASS_TOKEN", "dev-token")

	t.Run("prod drops token", func(t *testing.T) {
		t.Setenv("CAPSULE_ENV", "prod")
		var cfg Config
		cfg.LoadDefaults()
		parseEnv(&cfg)

		assert.Empty(t, cfg.BypassToken)
		_, ok := cfg.Bypass()
		assert.False(t, ok)
	})

	t.Run("dev keeps token", func(t *testing.T) {
		t.Setenv("CAPSULE_ENV", "DEV")
		var cfg Config
		cfg.LoadDefaults()
		parseEnv(&cfg)

		tok, ok := cfg.Bypass()
		assert.True(t, ok)
		assert.Equal(t, "dev-token", tok)
	})
}

func TestParseEnv_BadValuePanics(t *testing.T) {
	t.Setenv("CAPSULE_MAX_PARALLEL_UPLOADS", "many")
	var cfg Config
	cfg.LoadDefaults()
	require.Panics(t, func() { parseEnv(&cfg) })
}
