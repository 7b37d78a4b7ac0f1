// Package config loads runtime configuration for the filedesk client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Dotenv file (-e / -env, or ./.env when present) and the process
//     environment; real environment variables win over the file.
//  3. Optional JSON file selected with -c / -config.
//  4. Command-line flags (-a, -m, -d, -l).
//
// Environment variables
//
//	API_URL, TOKEN_PREFIX,
//	IDENTITY_API_KEY, IDENTITY_ENDPOINT, IDENTITY_TOKEN_ENDPOINT,
//	IDENTITY_PROJECT_ID, IDENTITY_VERIFY_TOKENS,
//	STORAGE_MODE, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT,
//	S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY, S3_SIGNED_URL_TTL,
//	SESSION_DB, CREDENTIAL_PASSPHRASE, DOWNLOAD_DIR, REQUEST_TIMEOUT, LOG_LEVEL
//
// # JSON schema
//
// Durations accept "3s"-style strings or integer nanoseconds:
//
//	{
//	  "api_url": "http://localhost:8002/api",
//	  "storage_mode": "direct",
//	  "s3_signed_url_ttl": "2m"
//	}
//
// Configuration is read once at startup; there is no reload.
package config
