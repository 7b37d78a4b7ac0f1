package common

import "errors"

var (
	ErrorNotFound = errors.New("not found")

	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrNoCredential is returned when no backend credential is persisted.
	ErrNoCredential = errors.New("no credential")
)
