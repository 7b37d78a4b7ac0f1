package identity

import (
	"errors"
	"strings"
)

// ErrNotConfigured is wrapped by ProviderError when no API key is set.
var ErrNotConfigured = errors.New("identity provider is not configured")

// ErrNoIdentity is returned by IDToken when nobody is signed in.
var ErrNoIdentity = errors.New("no signed-in identity")

// ProviderError carries the provider's message for a failed call.
type ProviderError struct {
	// Code is the provider's error code, e.g. "EMAIL_NOT_FOUND". Empty for
	// transport failures.
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

var providerMessages = map[string]string{
	"EMAIL_EXISTS":                "The email address is already in use by another account.",
	"EMAIL_NOT_FOUND":             "There is no user record corresponding to this email.",
	"INVALID_PASSWORD":            "The password is invalid.",
	"INVALID_LOGIN_CREDENTIALS":   "Invalid email or password.",
	"INVALID_EMAIL":               "The email address is badly formatted.",
	"USER_DISABLED":               "The user account has been disabled.",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many unsuccessful attempts. Try again later.",
	"OPERATION_NOT_ALLOWED":       "Password sign-in is disabled for this project.",
	"TOKEN_EXPIRED":               "The user's credential is no longer valid. Sign in again.",
	"INVALID_REFRESH_TOKEN":       "The user's credential is no longer valid. Sign in again.",
}

// newProviderError maps a raw provider code such as
// "WEAK_PASSWORD : Password should be at least 6 characters" to a message.
func newProviderError(raw string) *ProviderError {
	code, detail, _ := strings.Cut(raw, " : ")
	code = strings.TrimSpace(code)

	if msg, ok := providerMessages[code]; ok {
		return &ProviderError{Code: code, Message: msg}
	}
	if detail != "" {
		return &ProviderError{Code: code, Message: strings.TrimSpace(detail)}
	}
	return &ProviderError{Code: code, Message: raw}
}
