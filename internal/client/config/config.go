package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// StorageMode selects how file contents reach object storage.
type StorageMode string

const (
	// StorageModeBackend sends file bytes to the backend, which stores them.
	StorageModeBackend StorageMode = "backend"
	// StorageModeDirect uploads to the object store with presigned URLs and
	// only registers the record with the backend.
	StorageModeDirect StorageMode = "direct"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageMode.
func (m *StorageMode) UnmarshalText(text []byte) error {
	v := StorageMode(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case StorageModeBackend, StorageModeDirect:
		*m = v
		return nil
	default:
		return fmt.Errorf("invalid StorageMode: %q (valid options: backend, direct)", string(text))
	}
}

// IdentityConfig configures the identity-provider bridge.
type IdentityConfig struct {
	APIKey        string `env:"IDENTITY_API_KEY"`
	Endpoint      string `env:"IDENTITY_ENDPOINT"`
	TokenEndpoint string `env:"IDENTITY_TOKEN_ENDPOINT"`
	ProjectID     string `env:"IDENTITY_PROJECT_ID"`
	VerifyTokens  bool   `env:"IDENTITY_VERIFY_TOKENS"`
}

// StorageConfig configures object storage access.
type StorageConfig struct {
	Mode         StorageMode   `env:"STORAGE_MODE"`
	Bucket       string        `env:"S3_BUCKET"`
	Region       string        `env:"S3_REGION"`
	BaseEndpoint string        `env:"S3_BASE_ENDPOINT"`
	AccessKey    string        `env:"S3_ACCESS_KEY_ID"`
	SecretKey    string        `env:"S3_SECRET_ACCESS_KEY"`
	SignedURLTTL time.Duration `env:"S3_SIGNED_URL_TTL"`
}

// Config holds runtime settings for the filedesk client.
//
// Fields:
//   - BackendURL: base URL of the REST backend, including the /api prefix.
//   - TokenPrefix: scheme written before the credential in Authorization.
//   - Identity: identity-provider endpoints and API key.
//   - Storage: object-store variant, bucket and credentials.
//   - SessionDBPath: SQLite file holding the persisted credential.
//   - CredentialPassphrase: when set, the credential is sealed at rest.
//   - DownloadDir: where downloaded files are written.
//   - RequestTimeout: per-request timeout; zero means none.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	BackendURL           string `env:"API_URL"`
	TokenPrefix          string `env:"TOKEN_PREFIX"`
	Identity             IdentityConfig
	Storage              StorageConfig
	SessionDBPath        string        `env:"SESSION_DB"`
	CredentialPassphrase string        `env:"CREDENTIAL_PASSPHRASE"`
	DownloadDir          string        `env:"DOWNLOAD_DIR"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel             string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://localhost:8002/api"
	c.TokenPrefix = "Token"
	c.Identity.Endpoint = "https://identitytoolkit.googleapis.com"
	c.Identity.TokenEndpoint = "https://securetoken.googleapis.com"
	c.Storage.Mode = StorageModeBackend
	c.Storage.Bucket = "trisha.vid.ip"
	c.Storage.Region = "ap-south-1"
	c.Storage.SignedURLTTL = 60 * time.Second
	c.SessionDBPath = "filedesk.db"
	c.DownloadDir = "download"
	c.RequestTimeout = 0
	c.LogLevel = "info"
}

// Validate rejects configurations the client cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BackendURL) == "" {
		return fmt.Errorf("backend URL is required")
	}
	if c.Storage.Mode == StorageModeDirect && c.Storage.Bucket == "" {
		return fmt.Errorf("direct storage mode requires a bucket")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	return nil
}

// LoadConfig builds a Config from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.Environ())
}

// Load applies defaults, then the dotenv file and environment, then the JSON
// file, then flags. Later sources take precedence over earlier ones.
func Load(args []string, environ []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args, environ); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
