package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dmitrijs2005/filedesk/internal/logging"
	"golang.org/x/oauth2"
)

const (
	signUpPath = "/v1/accounts:signUp"
	signInPath = "/v1/accounts:signInWithPassword"
	tokenPath  = "/v1/token"

	// DefaultJWKSURL serves the public keys of Firebase ID tokens.
	DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

	refreshLeeway = time.Minute
)

// Config configures a FirebaseBridge.
type Config struct {
	APIKey        string
	Endpoint      string
	TokenEndpoint string
	// ProjectID is the expected audience of ID tokens when VerifyTokens is set.
	ProjectID    string
	VerifyTokens bool
	// JWKSURL defaults to DefaultJWKSURL.
	JWKSURL    string
	HTTPClient *http.Client
	Logger     logging.Logger
}

// FirebaseBridge implements Bridge over the Firebase Auth REST API.
type FirebaseBridge struct {
	cfg      Config
	http     *http.Client
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
	log      logging.Logger

	mu      sync.Mutex
	current *Identity
}

var _ Bridge = (*FirebaseBridge)(nil)

func NewFirebaseBridge(cfg Config) (*FirebaseBridge, error) {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.JWKSURL == "" {
		cfg.JWKSURL = DefaultJWKSURL
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	cfg.TokenEndpoint = strings.TrimRight(cfg.TokenEndpoint, "/")

	b := &FirebaseBridge{
		cfg:  cfg,
		http: cfg.HTTPClient,
		log:  cfg.Logger,
		oauth: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenEndpoint + tokenPath + "?key=" + url.QueryEscape(cfg.APIKey),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}

	if cfg.VerifyTokens {
		if cfg.ProjectID == "" {
			return nil, fmt.Errorf("identity: project ID is required to verify tokens")
		}
		// the key set outlives any single request
		ctx := oidc.ClientContext(context.Background(), cfg.HTTPClient)
		keys := oidc.NewRemoteKeySet(ctx, cfg.JWKSURL)
		b.verifier = newVerifier(cfg.ProjectID, keys)
	}

	return b, nil
}

func newVerifier(projectID string, keys oidc.KeySet) *oidc.IDTokenVerifier {
	issuer := "https://securetoken.google.com/" + projectID
	return oidc.NewVerifier(issuer, keys, &oidc.Config{ClientID: projectID})
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (b *FirebaseBridge) Register(ctx context.Context, email, password string) (*Identity, error) {
	return b.passwordCall(ctx, signUpPath, email, password)
}

func (b *FirebaseBridge) Login(ctx context.Context, email, password string) (*Identity, error) {
	return b.passwordCall(ctx, signInPath, email, password)
}

// Logout forgets the signed-in identity. The REST API keeps no server-side
// session, so this cannot fail.
func (b *FirebaseBridge) Logout(ctx context.Context) error {
	b.mu.Lock()
	b.current = nil
	b.mu.Unlock()
	return nil
}

func (b *FirebaseBridge) IDToken(ctx context.Context) (string, error) {
	b.mu.Lock()
	cur := b.current
	b.mu.Unlock()

	if cur == nil {
		return "", &ProviderError{Message: ErrNoIdentity.Error(), Err: ErrNoIdentity}
	}
	if time.Until(cur.ExpiresAt) > refreshLeeway {
		return cur.IDToken, nil
	}

	id, err := b.refresh(ctx, cur)
	if err != nil {
		return "", err
	}
	return id.IDToken, nil
}

func (b *FirebaseBridge) passwordCall(ctx context.Context, path, email, password string) (*Identity, error) {
	if b.cfg.APIKey == "" {
		return nil, &ProviderError{Message: ErrNotConfigured.Error(), Err: ErrNotConfigured}
	}

	body, err := json.Marshal(passwordRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, &ProviderError{Message: "invalid identity request: " + err.Error(), Err: err}
	}

	u := b.cfg.Endpoint + path + "?key=" + url.QueryEscape(b.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Message: "invalid identity request: " + err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, &ProviderError{Message: "network error: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error.Message == "" {
			return nil, &ProviderError{Message: fmt.Sprintf("identity provider returned status %d", resp.StatusCode)}
		}
		return nil, newProviderError(er.Error.Message)
	}

	var ar accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, &ProviderError{Message: "malformed identity provider response", Err: err}
	}

	id := &Identity{
		UID:          ar.LocalID,
		Email:        ar.Email,
		IDToken:      ar.IDToken,
		RefreshToken: ar.RefreshToken,
		ExpiresAt:    expiry(ar.ExpiresIn),
	}

	if err := b.inspect(ctx, id); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.current = id
	b.mu.Unlock()

	b.log.Debug(ctx, "identity signed in", "uid", id.UID)
	return id, nil
}

// refresh trades the refresh token for a new ID token.
func (b *FirebaseBridge) refresh(ctx context.Context, cur *Identity) (*Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, b.http)

	src := b.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: cur.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, refreshError(err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, &ProviderError{Message: "identity provider returned no ID token"}
	}

	next := &Identity{
		UID:          cur.UID,
		Email:        cur.Email,
		IDToken:      idToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
	if next.RefreshToken == "" {
		next.RefreshToken = cur.RefreshToken
	}
	if err := b.inspect(ctx, next); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.current = next
	b.mu.Unlock()

	return next, nil
}

func refreshError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		var er errorResponse
		if json.Unmarshal(re.Body, &er) == nil && er.Error.Message != "" {
			pe := newProviderError(er.Error.Message)
			pe.Err = err
			return pe
		}
		if re.ErrorCode != "" {
			pe := newProviderError(strings.ToUpper(re.ErrorCode))
			pe.Err = err
			return pe
		}
	}
	return &ProviderError{Message: "token refresh failed: " + err.Error(), Err: err}
}

// inspect fills identity fields from the ID token claims and, when enabled,
// verifies the token signature and audience.
func (b *FirebaseBridge) inspect(ctx context.Context, id *Identity) error {
	if b.verifier != nil {
		if _, err := b.verifier.Verify(ctx, id.IDToken); err != nil {
			return &ProviderError{Message: "identity token rejected: " + err.Error(), Err: err}
		}
	}

	c, err := parseClaims(id.IDToken)
	if err != nil {
		// opaque tokens are acceptable without verification
		if b.verifier == nil {
			return nil
		}
		return &ProviderError{Message: "malformed identity token", Err: err}
	}

	if id.UID == "" {
		id.UID = c.Subject
	}
	if id.Email == "" {
		id.Email = c.Email
	}
	if id.ExpiresAt.IsZero() && c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return nil
}

func expiry(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(secs) * time.Second)
}
