package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "devbackend.json", map[string]any{
		"addr":              ":9999",
		"secret_key":        "my_secret_key",
		"token_ttl":         "1h",
		"s3_access_key":     "user",
		"s3_secret_key":     "password",
		"s3_bucket":         "bucket",
		"s3_region":         "region",
		"s3_base_endpoint":  "base_endpoint",
		"presign_ttl":       "5m",
		"sign_content_type": false,
		"pricing": map[string]any{
			"week": 1, "month": 2, "year": 3, "per_photo": 4,
			"custom_bands": []map[string]any{{"max_days": 10, "price": 100}},
		},
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		var cfg Config
		cfg.LoadDefaults()
		parseJson(&cfg)

		assert.Equal(t, ":9999", cfg.Addr)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, time.Hour, cfg.TokenTTL)
		assert.Equal(t, "user", cfg.S3AccessKey)
		assert.Equal(t, "password", cfg.S3SecretKey)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, 5*time.Minute, cfg.PresignTTL)
		assert.False(t, cfg.SignContentType)
		assert.Equal(t, int64(4), cfg.Pricing.PerPhoto)
		assert.Len(t, cfg.Pricing.CustomBands, 1)
		assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	})

	t.Run("no config flag leaves config alone", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := Config{Addr: "defaults:1234", PresignTTL: time.Minute}
		parseJson(&cfg)

		assert.Equal(t, "defaults:1234", cfg.Addr)
		assert.Equal(t, time.Minute, cfg.PresignTTL)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		var cfg Config
		require.Panics(t, func() { parseJson(&cfg) })
	})
}
