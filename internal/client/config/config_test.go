package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/dmitrijs2005/timecapsule/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.APIBaseURL)
	assert.Equal(t, EnvProd, c.Env)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, logging.FormatConsole, c.LogFormat)
	assert.Equal(t, 3, c.MaxParallelUploads)
	assert.Equal(t, pricing.DefaultTable(), c.Pricing)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_DefaultsWhenNothingGiven(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	_, ok := cfg.Bypass()
	assert.False(t, ok)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CAPSULE_API_BASE_URL", "env.example.com")
	t.Setenv("CAPSULE_DB_PATH", "/tmp/env.db")
	os.Args = []string{"testbin", "-a", "flag.example.com/"}

	cfg := LoadConfig()
	assert.Equal(t, "https://flag.example.com", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/env.db", cfg.DatabasePath)
}

func TestLoadConfig_SubSecondTimeoutFromEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("CAPSULE_REQUEST_TIMEOUT", "1500ms")
	cfg := LoadConfig()
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)

	t.Setenv("CAPSULE_REQUEST_TIMEOUT", "500ms")
	cfg = LoadConfig()
	assert.Equal(t, 500*time.Millisecond, cfg.RequestTimeout)
	require.NoError(t, cfg.Validate())

	os.Args = []string{"testbin", "-t", "4"}
	cfg = LoadConfig()
	assert.Equal(t, 4*time.Second, cfg.RequestTimeout)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := map[string]string{
		"api.example.com":          "https://api.example.com",
		"https://api.example.com/": "https://api.example.com",
		"http://localhost:8080//":  "http://localhost:8080",
		"  api.example.com/v1/ ":   "https://api.example.com/v1",
		"":                         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeBaseURL(in), "input %q", in)
	}
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.MaxParallelUploads = 0
	assert.Error(t, c.Validate())

	c.LoadDefaults()
	c.Pricing.CustomBands = nil
	assert.ErrorIs(t, c.Validate(), pricing.ErrNoBands)

	c.LoadDefaults()
	c.RequestTimeout = 0
	assert.Error(t, c.Validate())
}
