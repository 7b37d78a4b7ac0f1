package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/filedesk/internal/common"
	"github.com/dmitrijs2005/filedesk/internal/logging"
)

// Options configures an HTTPClient.
type Options struct {
	// BaseURL includes the API prefix, e.g. http://localhost:8002/api.
	BaseURL string
	// TokenPrefix is the Authorization scheme; defaults to "Token".
	TokenPrefix string
	// Timeout applies per request; zero means none.
	Timeout time.Duration
	// Credentials is read on every request and cleared on 401/403.
	Credentials Credentials
	// IsAuthView reports whether the user is on the login or registration
	// view, where 401/403 responses must not clear the credential.
	IsAuthView func() bool
	Logger     logging.Logger
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	auth    *authTransport
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("client: base URL is required")
	}
	if opts.Credentials == nil {
		return nil, errors.New("client: credentials are required")
	}
	if opts.TokenPrefix == "" {
		opts.TokenPrefix = common.DefaultTokenPrefix
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}

	at := &authTransport{
		base:       opts.Transport,
		creds:      opts.Credentials,
		prefix:     opts.TokenPrefix,
		isAuthView: opts.IsAuthView,
		log:        opts.Logger,
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    &http.Client{Transport: at, Timeout: opts.Timeout},
		auth:    at,
		log:     opts.Logger,
	}, nil
}

// OnUnauthorized registers fn to run after a 401/403 cleared the credential.
// It replaces any previous hook.
func (c *HTTPClient) OnUnauthorized(fn func(ctx context.Context)) {
	c.auth.setHook(fn)
}

func (c *HTTPClient) url(path string) string {
	return c.baseURL + path
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	ctx := req.Context()
	req.Header.Set("Accept", "application/json")

	c.log.Debug(ctx, "backend request", "method", req.Method, "path", req.URL.Path)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
