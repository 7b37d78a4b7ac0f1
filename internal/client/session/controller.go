package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/filedesk/internal/client/identity"
	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/dmitrijs2005/filedesk/internal/common"
	"github.com/dmitrijs2005/filedesk/internal/logging"
)

// ErrNotAuthenticated is returned by operations that need a live session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNoCredentialIssued is returned when the backend accepted a login or
// registration but sent no credential.
var ErrNoCredentialIssued = errors.New("backend issued no credential")

// Backend is the part of the REST client the controller drives.
type Backend interface {
	GetProfile(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
}

// CredentialStore persists the backend credential. Load returns
// common.ErrNoCredential when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Controller is the single owner of the session. Safe for concurrent use;
// no lock is held during remote calls.
type Controller struct {
	backend Backend
	bridge  identity.Bridge
	creds   CredentialStore
	log     logging.Logger

	mu   sync.Mutex
	snap Snapshot
}

func NewController(backend Backend, bridge identity.Bridge, creds CredentialStore, log logging.Logger) *Controller {
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{
		backend: backend,
		bridge:  bridge,
		creds:   creds,
		log:     log.With("component", "session"),
	}
}

// Snapshot returns the current session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// User returns the signed-in user or ErrNotAuthenticated.
func (c *Controller) User() (models.User, error) {
	s := c.Snapshot()
	if !s.Authenticated() || s.User == nil {
		return models.User{}, ErrNotAuthenticated
	}
	return *s.User, nil
}

func (c *Controller) dispatch(ctx context.Context, e Event) Snapshot {
	s, _ := c.apply(ctx, e)
	return s
}

// apply reduces e and runs its effects. A credential is persisted before the
// new snapshot is committed; if that fails the snapshot is left unchanged and
// the error returned.
func (c *Controller) apply(ctx context.Context, e Event) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.snap.State
	next, effects := Reduce(c.snap, e)

	for _, eff := range effects {
		if p, ok := eff.(PersistCredential); ok {
			if err := c.creds.Save(ctx, p.Credential); err != nil {
				c.log.Error(ctx, "failed to persist credential", "err", err)
				return c.snap, fmt.Errorf("persist credential: %w", err)
			}
		}
	}
	c.snap = next

	if prev != next.State {
		c.log.Debug(ctx, "session transition", "from", prev.String(), "to", next.State.String())
	}

	for _, eff := range effects {
		if _, ok := eff.(ClearCredential); ok {
			if err := c.creds.Clear(ctx); err != nil {
				c.log.Error(ctx, "failed to clear credential", "err", err)
			}
		}
	}
	return next, nil
}

// Start resolves the Unknown state: a persisted credential is validated
// against the backend profile endpoint. Calling Start again is a no-op.
func (c *Controller) Start(ctx context.Context) Snapshot {
	if s := c.Snapshot(); s.State != Unknown {
		return s
	}

	cred, err := c.creds.Load(ctx)
	if errors.Is(err, common.ErrNoCredential) {
		return c.dispatch(ctx, StartupNoCredential{})
	}
	if err != nil {
		c.log.Warn(ctx, "stored credential unusable", "err", err)
		return c.dispatch(ctx, StartupRejected{Err: err})
	}

	user, err := c.backend.GetProfile(ctx)
	if err != nil {
		c.log.Info(ctx, "stored credential rejected", "err", err)
		return c.dispatch(ctx, StartupRejected{Err: err})
	}

	return c.dispatch(ctx, StartupValidated{Credential: cred, User: *user})
}

// Login authenticates with email and password.
//
// The identity provider is tried first and its ID token exchanged with the
// backend. If the provider fails, the backend is asked directly with the
// email's local part as username. When both fail the provider's error wins.
// A backend answer without a credential counts as a failure of its path.
func (c *Controller) Login(ctx context.Context, email, password string) LoginOutcome {
	id, providerErr := c.bridge.Login(ctx, email, password)
	if providerErr == nil {
		resp, err := c.exchange(ctx, models.LoginRequest{FirebaseToken: id.IDToken})
		if err != nil {
			c.log.Warn(ctx, "identity token exchange failed", "err", err)
			out := LoginOutcome{Kind: ExchangeFailed, Err: errors.New(ExchangeFailedMessage), FallbackErr: err}
			c.dispatch(ctx, LoginFailed{Outcome: out})
			return out
		}
		return c.completeLogin(ctx, resp, LoginOutcome{Kind: ProviderSuccess})
	}

	c.log.Info(ctx, "identity login failed, trying backend login", "err", providerErr)

	resp, fallbackErr := c.exchange(ctx, models.LoginRequest{
		Username: usernameFromEmail(email),
		Password: password,
	})
	if fallbackErr != nil {
		out := LoginOutcome{Kind: BothFailed, Err: providerErr, ProviderErr: providerErr, FallbackErr: fallbackErr}
		c.log.Info(ctx, "backend login failed", "err", fallbackErr)
		c.dispatch(ctx, LoginFailed{Outcome: out})
		return out
	}

	return c.completeLogin(ctx, resp, LoginOutcome{Kind: ProviderFailureFallbackSuccess, ProviderErr: providerErr})
}

// exchange calls the backend login endpoint and rejects a response that
// carries no credential.
func (c *Controller) exchange(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	resp, err := c.backend.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrNoCredentialIssued
	}
	return resp, nil
}

// completeLogin persists the credential, then refreshes the user record from
// the profile endpoint. The refresh is best-effort; the login response
// already identifies the user.
func (c *Controller) completeLogin(ctx context.Context, resp *models.LoginResponse, ok LoginOutcome) LoginOutcome {
	if _, err := c.apply(ctx, LoginSucceeded{Credential: resp.Token, User: resp.User()}); err != nil {
		out := LoginOutcome{Kind: PersistFailed, Err: err, ProviderErr: ok.ProviderErr}
		c.dispatch(ctx, LoginFailed{Outcome: out})
		return out
	}
	c.refreshUser(ctx)
	return ok
}

func (c *Controller) refreshUser(ctx context.Context) {
	bestEffort(ctx, c.log, "profile refresh", func(ctx context.Context) error {
		u, err := c.backend.GetProfile(ctx)
		if err != nil {
			return err
		}
		c.dispatch(ctx, UserUpdated{User: *u})
		return nil
	})
}

// Register creates the identity-provider account, then the backend account
// bound to it, and signs in with the returned credential. Provider errors are
// *identity.ProviderError; backend errors keep their field details.
func (c *Controller) Register(ctx context.Context, req models.RegisterRequest) error {
	id, err := c.bridge.Register(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	req.FirebaseToken = id.IDToken
	resp, err := c.backend.Register(ctx, req)
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return ErrNoCredentialIssued
	}

	_, err = c.apply(ctx, Registered{Credential: resp.Token, User: resp.User})
	return err
}

// Logout ends the session. Provider and backend logout failures are logged
// and ignored; the credential is always cleared.
func (c *Controller) Logout(ctx context.Context) Snapshot {
	bestEffort(ctx, c.log, "identity logout", c.bridge.Logout)
	bestEffort(ctx, c.log, "backend logout", c.backend.Logout)
	return c.dispatch(ctx, LoggedOut{})
}

// Revoke records that the backend invalidated the credential. It is wired to
// the HTTP client's unauthorized hook.
func (c *Controller) Revoke(ctx context.Context) {
	c.dispatch(ctx, CredentialRevoked{})
}

// UpdateUser replaces the user record after a profile change.
func (c *Controller) UpdateUser(ctx context.Context, u models.User) {
	c.dispatch(ctx, UserUpdated{User: u})
}

// TakeNotice returns the pending notice, if any, and clears it.
func (c *Controller) TakeNotice(ctx context.Context) string {
	n := c.Snapshot().Notice
	if n != "" {
		c.dispatch(ctx, NoticeConsumed{})
	}
	return n
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
