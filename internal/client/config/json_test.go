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
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"api_url":                "http://www.example/api",
		"storage_mode":           "direct",
		"s3_signed_url_ttl":      "90s",
		"request_timeout":        int64(3 * time.Second),
		"identity_verify_tokens": true,
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "http://www.example/api", cfg.BackendURL)
		assert.Equal(t, StorageModeDirect, cfg.Storage.Mode)
		assert.Equal(t, 90*time.Second, cfg.Storage.SignedURLTTL)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.True(t, cfg.Identity.VerifyTokens)
		assert.Equal(t, "trisha.vid.ip", cfg.Storage.Bucket)
	})

	t.Run("no flag leaves config unchanged", func(t *testing.T) {
		cfg := &Config{BackendURL: "keep"}
		require.NoError(t, parseJson(cfg, nil))
		assert.Equal(t, "keep", cfg.BackendURL)
	})

	t.Run("bad json", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		assert.Error(t, parseJson(&Config{}, []string{"-c", bad}))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, parseJson(&Config{}, []string{"-c", filepath.Join(dir, "missing.json")}))
	})
}
