// Package common contains shared constants, sentinel errors and small
// helpers used across filedesk packages.
package common

// AuthorizationHeaderName is the HTTP header carrying the backend credential.
const AuthorizationHeaderName = "Authorization"

// DefaultTokenPrefix is the scheme the backend expects in front of the
// credential ("Authorization: Token <key>").
const DefaultTokenPrefix = "Token"

// CredentialKey is the single local-storage key holding the backend
// session credential. Absence of the key means logged out.
const CredentialKey = "token"
