package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8002/api", c.BackendURL)
	assert.Equal(t, "Token", c.TokenPrefix)
	assert.Equal(t, StorageModeBackend, c.Storage.Mode)
	assert.Equal(t, 60*time.Second, c.Storage.SignedURLTTL)
	assert.Equal(t, time.Duration(0), c.RequestTimeout)
	assert.Equal(t, "filedesk.db", c.SessionDBPath)
}

func TestLoad_UsesDefaultsWithoutSources(t *testing.T) {
	cfg, err := Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8002/api", cfg.BackendURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"api_url":   "http://json.example/api",
		"log_level": "warn",
	})

	environ := []string{
		"API_URL=http://env.example/api",
		"LOG_LEVEL=debug",
		"SESSION_DB=env.db",
	}

	cfg, err := Load([]string{"-c", path, "-l", "error"}, environ)
	require.NoError(t, err)

	// json beats env, flag beats json, env beats default
	assert.Equal(t, "http://json.example/api", cfg.BackendURL)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "env.db", cfg.SessionDBPath)
}

func TestStorageMode_UnmarshalText(t *testing.T) {
	var m StorageMode

	require.NoError(t, m.UnmarshalText([]byte(" Direct ")))
	assert.Equal(t, StorageModeDirect, m)

	err := m.UnmarshalText([]byte("ftp"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid StorageMode")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults ok", mutate: func(c *Config) {}},
		{name: "empty backend", mutate: func(c *Config) { c.BackendURL = " " }, wantErr: true},
		{name: "direct without bucket", mutate: func(c *Config) {
			c.Storage.Mode = StorageModeDirect
			c.Storage.Bucket = ""
		}, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
