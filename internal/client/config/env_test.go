package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_ProcessEnvironment(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	environ := []string{
		"STORAGE_MODE=direct",
		"S3_BUCKET=files",
		"S3_SIGNED_URL_TTL=2m",
		"IDENTITY_API_KEY=key-1",
		"IDENTITY_VERIFY_TOKENS=true",
		"REQUEST_TIMEOUT=5s",
	}

	require.NoError(t, parseEnv(&cfg, nil, environ))

	assert.Equal(t, StorageModeDirect, cfg.Storage.Mode)
	assert.Equal(t, "files", cfg.Storage.Bucket)
	assert.Equal(t, 2*time.Minute, cfg.Storage.SignedURLTTL)
	assert.Equal(t, "key-1", cfg.Identity.APIKey)
	assert.True(t, cfg.Identity.VerifyTokens)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	// untouched
	assert.Equal(t, "ap-south-1", cfg.Storage.Region)
}

func TestParseEnv_DotenvFileLosesToEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("API_URL=http://file.example/api\nDOWNLOAD_DIR=from-file\n"), 0o600))

	var cfg Config
	cfg.LoadDefaults()

	require.NoError(t, parseEnv(&cfg, []string{"-env", path}, []string{"API_URL=http://env.example/api"}))

	assert.Equal(t, "http://env.example/api", cfg.BackendURL)
	assert.Equal(t, "from-file", cfg.DownloadDir)
}

func TestParseEnv_MissingExplicitFile(t *testing.T) {
	var cfg Config
	err := parseEnv(&cfg, []string{"-e", filepath.Join(t.TempDir(), "nope.env")}, nil)
	assert.Error(t, err)
}

func TestParseEnv_InvalidMode(t *testing.T) {
	var cfg Config
	err := parseEnv(&cfg, nil, []string{"STORAGE_MODE=carrier-pigeon"})
	assert.Error(t, err)
}
