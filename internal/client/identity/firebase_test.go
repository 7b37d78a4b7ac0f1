package identity

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	srv       *httptest.Server
	accounts  map[string]string // email -> password
	idToken   func(email string) string
	expiresIn string
	refreshes atomic.Int32
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{
		accounts:  map[string]string{},
		idToken:   func(email string) string { return "id-" + email },
		expiresIn: "3600",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accounts:signUp", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			providerFail(w, "API_KEY_INVALID")
			return
		}
		var req passwordRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := p.accounts[req.Email]; ok {
			providerFail(w, "EMAIL_EXISTS")
			return
		}
		if len(req.Password) < 6 {
			providerFail(w, "WEAK_PASSWORD : Password should be at least 6 characters")
			return
		}
		p.accounts[req.Email] = req.Password
		p.ok(w, req.Email)
	})
	mux.HandleFunc("/v1/accounts:signInWithPassword", func(w http.ResponseWriter, r *http.Request) {
		var req passwordRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		pw, ok := p.accounts[req.Email]
		if !ok || pw != req.Password {
			providerFail(w, "INVALID_LOGIN_CREDENTIALS")
			return
		}
		p.ok(w, req.Email)
	})
	mux.HandleFunc("/v1/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("grant_type") != "refresh_token" || r.Form.Get("refresh_token") != "refresh-1" {
			providerFail(w, "INVALID_REFRESH_TOKEN")
			return
		}
		p.refreshes.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "refreshed-id",
			"id_token":      "refreshed-id",
			"refresh_token": "refresh-2",
			"expires_in":    "3600",
			"token_type":    "Bearer",
		})
	})

	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakeProvider) ok(w http.ResponseWriter, email string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(accountResponse{
		LocalID:      "uid-" + email,
		Email:        email,
		IDToken:      p.idToken(email),
		RefreshToken: "refresh-1",
		ExpiresIn:    p.expiresIn,
	})
}

func providerFail(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	var er errorResponse
	er.Error.Code = 400
	er.Error.Message = msg
	_ = json.NewEncoder(w).Encode(er)
}

func (p *fakeProvider) bridge(t *testing.T) *FirebaseBridge {
	t.Helper()
	b, err := NewFirebaseBridge(Config{
		APIKey:        "test-key",
		Endpoint:      p.srv.URL,
		TokenEndpoint: p.srv.URL,
		HTTPClient:    p.srv.Client(),
	})
	require.NoError(t, err)
	return b
}

func TestRegisterAndLogin(t *testing.T) {
	p := newFakeProvider(t)
	b := p.bridge(t)
	ctx := context.Background()

	id, err := b.Register(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-ann@example.com", id.UID)
	assert.Equal(t, "id-ann@example.com", id.IDToken)

	id, err = b.Login(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", id.Email)

	tok, err := b.IDToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "id-ann@example.com", tok)
	assert.Equal(t, int32(0), p.refreshes.Load())
}

func TestProviderErrors(t *testing.T) {
	p := newFakeProvider(t)
	b := p.bridge(t)
	ctx := context.Background()

	_, err := b.Login(ctx, "nobody@example.com", "x")
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "INVALID_LOGIN_CREDENTIALS", pe.Code)
	assert.Equal(t, "Invalid email or password.", pe.Error())

	_, err = b.Register(ctx, "weak@example.com", "123")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "WEAK_PASSWORD", pe.Code)
	assert.Equal(t, "Password should be at least 6 characters", pe.Message)

	_, err = b.Register(ctx, "dup@example.com", "secret123")
	require.NoError(t, err)
	_, err = b.Register(ctx, "dup@example.com", "secret123")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "EMAIL_EXISTS", pe.Code)
}

func TestNotConfigured(t *testing.T) {
	b, err := NewFirebaseBridge(Config{})
	require.NoError(t, err)

	_, err = b.Login(context.Background(), "a@b.c", "pw")
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestNetworkFailure(t *testing.T) {
	p := newFakeProvider(t)
	b := p.bridge(t)
	p.srv.Close()

	_, err := b.Login(context.Background(), "a@b.c", "pw")
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Message, "network error")
}

func TestMalformedEndpoint(t *testing.T) {
	b, err := NewFirebaseBridge(Config{APIKey: "test-key", Endpoint: "://no-scheme"})
	require.NoError(t, err)

	for _, call := range []func(context.Context, string, string) (*Identity, error){b.Login, b.Register} {
		_, err := call(context.Background(), "a@b.c", "secret123")
		var pe *ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Contains(t, pe.Message, "invalid identity request")
		assert.Error(t, pe.Unwrap())
	}
}

func TestIDToken_RefreshesWhenExpiring(t *testing.T) {
	p := newFakeProvider(t)
	p.expiresIn = "30"
	b := p.bridge(t)
	ctx := context.Background()

	_, err := b.Register(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)

	tok, err := b.IDToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refreshed-id", tok)
	assert.Equal(t, int32(1), p.refreshes.Load())

	// fresh token is served from memory
	tok, err = b.IDToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refreshed-id", tok)
	assert.Equal(t, int32(1), p.refreshes.Load())
}

func TestIDToken_RefreshRejected(t *testing.T) {
	p := newFakeProvider(t)
	b := p.bridge(t)
	b.current = &Identity{UID: "u", RefreshToken: "revoked", ExpiresAt: time.Now()}

	_, err := b.IDToken(context.Background())
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", pe.Code)
}

func TestLogout_ForgetsIdentity(t *testing.T) {
	p := newFakeProvider(t)
	b := p.bridge(t)
	ctx := context.Background()

	_, err := b.Register(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, b.Logout(ctx))

	_, err = b.IDToken(ctx)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func signedToken(t *testing.T, key *rsa.PrivateKey, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func TestClaimsFillIdentity(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, key, Claims{
		Email: "ann@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	c, err := parseClaims(raw)
	require.NoError(t, err)
	assert.Equal(t, "uid-42", c.Subject)

	b, err := NewFirebaseBridge(Config{})
	require.NoError(t, err)
	id := &Identity{IDToken: raw}
	require.NoError(t, b.inspect(context.Background(), id))
	assert.Equal(t, "uid-42", id.UID)
	assert.Equal(t, "ann@example.com", id.Email)
	assert.True(t, id.ExpiresAt.Equal(exp))
}

func TestVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	b, err := NewFirebaseBridge(Config{})
	require.NoError(t, err)
	b.verifier = newVerifier("proj", &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}})

	claims := Claims{
		Email: "ann@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://securetoken.google.com/proj",
			Audience:  jwt.ClaimStrings{"proj"},
			Subject:   "uid-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	ctx := context.Background()

	require.NoError(t, b.inspect(ctx, &Identity{IDToken: signedToken(t, key, claims)}))

	err = b.inspect(ctx, &Identity{IDToken: signedToken(t, other, claims)})
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)

	claims.Audience = jwt.ClaimStrings{"someone-else"}
	err = b.inspect(ctx, &Identity{IDToken: signedToken(t, key, claims)})
	assert.ErrorAs(t, err, &pe)
}

func TestNewFirebaseBridge_VerifyNeedsProject(t *testing.T) {
	_, err := NewFirebaseBridge(Config{VerifyTokens: true})
	assert.Error(t, err)
}
