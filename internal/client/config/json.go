package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/filedesk/internal/flagx"
	"github.com/dmitrijs2005/filedesk/internal/timex"
)

// JsonConfig is the on-disk JSON shape. Only non-empty values are applied,
// so a file may set a subset of fields.
type JsonConfig struct {
	BackendURL           string          `json:"api_url"`
	TokenPrefix          string          `json:"token_prefix"`
	IdentityAPIKey       string          `json:"identity_api_key"`
	IdentityEndpoint     string          `json:"identity_endpoint"`
	IdentityTokenURL     string          `json:"identity_token_endpoint"`
	IdentityProjectID    string          `json:"identity_project_id"`
	IdentityVerifyTokens *bool           `json:"identity_verify_tokens"`
	StorageMode          string          `json:"storage_mode"`
	S3Bucket             string          `json:"s3_bucket"`
	S3Region             string          `json:"s3_region"`
	S3BaseEndpoint       string          `json:"s3_base_endpoint"`
	S3AccessKey          string          `json:"s3_access_key_id"`
	S3SecretKey          string          `json:"s3_secret_access_key"`
	SignedURLTTL         *timex.Duration `json:"s3_signed_url_ttl"`
	SessionDBPath        string          `json:"session_db"`
	DownloadDir          string          `json:"download_dir"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	LogLevel             string          `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setString(&cfg.BackendURL, jc.BackendURL)
	setString(&cfg.TokenPrefix, jc.TokenPrefix)
	setString(&cfg.Identity.APIKey, jc.IdentityAPIKey)
	setString(&cfg.Identity.Endpoint, jc.IdentityEndpoint)
	setString(&cfg.Identity.TokenEndpoint, jc.IdentityTokenURL)
	setString(&cfg.Identity.ProjectID, jc.IdentityProjectID)
	if jc.IdentityVerifyTokens != nil {
		cfg.Identity.VerifyTokens = *jc.IdentityVerifyTokens
	}
	if jc.StorageMode != "" {
		if err := cfg.Storage.Mode.UnmarshalText([]byte(jc.StorageMode)); err != nil {
			return err
		}
	}
	setString(&cfg.Storage.Bucket, jc.S3Bucket)
	setString(&cfg.Storage.Region, jc.S3Region)
	setString(&cfg.Storage.BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.Storage.AccessKey, jc.S3AccessKey)
	setString(&cfg.Storage.SecretKey, jc.S3SecretKey)
	if jc.SignedURLTTL != nil {
		cfg.Storage.SignedURLTTL = jc.SignedURLTTL.Duration
	}
	setString(&cfg.SessionDBPath, jc.SessionDBPath)
	setString(&cfg.DownloadDir, jc.DownloadDir)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.LogLevel, jc.LogLevel)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
