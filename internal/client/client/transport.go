package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/filedesk/internal/common"
	"github.com/dmitrijs2005/filedesk/internal/logging"
	"golang.org/x/oauth2"
)

// authTransport injects the persisted credential and invalidates it when the
// backend answers 401 or 403.
type authTransport struct {
	base       http.RoundTripper
	creds      Credentials
	prefix     string
	isAuthView func() bool
	log        logging.Logger

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	// RoundTrippers must not mutate the caller's request
	r := req.Clone(ctx)

	token, err := t.creds.Load(ctx)
	switch {
	case err == nil:
		tok := &oauth2.Token{AccessToken: token, TokenType: t.prefix}
		tok.SetAuthHeader(r)
	case errors.Is(err, common.ErrNoCredential):
	default:
		t.log.Warn(ctx, "credential unavailable, sending request without it", "err", err)
	}

	resp, err := t.base.RoundTrip(r)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		t.invalidate(ctx, r, resp.StatusCode)
	}

	return resp, nil
}

func (t *authTransport) invalidate(ctx context.Context, r *http.Request, status int) {
	if t.isAuthView != nil && t.isAuthView() {
		t.log.Warn(ctx, "auth failure on authentication view, credential kept",
			"status", status, "path", r.URL.Path)
		return
	}

	t.log.Warn(ctx, "auth failure, clearing credential", "status", status, "path", r.URL.Path)

	if err := t.creds.Clear(ctx); err != nil {
		t.log.Error(ctx, "failed to clear credential", "err", err)
	}

	t.mu.RLock()
	hook := t.onUnauthorized
	t.mu.RUnlock()

	if hook != nil {
		hook(ctx)
	}
}

func (t *authTransport) setHook(fn func(ctx context.Context)) {
	t.mu.Lock()
	t.onUnauthorized = fn
	t.mu.Unlock()
}
