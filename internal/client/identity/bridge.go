package identity

import (
	"context"
	"time"
)

// Identity is a signed-in provider account.
type Identity struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Bridge is the identity-provider contract used by the session controller.
// Every method fails with *ProviderError.
type Bridge interface {
	Register(ctx context.Context, email, password string) (*Identity, error)
	Login(ctx context.Context, email, password string) (*Identity, error)
	Logout(ctx context.Context) error
	// IDToken returns a current ID token for the signed-in identity,
	// refreshing it when it is about to expire.
	IDToken(ctx context.Context) (string, error)
}
