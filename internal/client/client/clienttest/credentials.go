package clienttest

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/filedesk/internal/common"
)

// Credentials is an in-memory credential store.
type Credentials struct {
	mu      sync.Mutex
	token   string
	clears  int
	saveErr error
}

func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

func (c *Credentials) Load(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" {
		return "", common.ErrNoCredential
	}
	return c.token, nil
}

func (c *Credentials) Save(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.token = token
	return nil
}

func (c *Credentials) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.clears++
	return nil
}

// Token returns the stored credential ("" when cleared).
func (c *Credentials) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Clears counts Clear calls.
func (c *Credentials) Clears() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clears
}

// FailSaves makes every Save return err until called again with nil.
func (c *Credentials) FailSaves(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveErr = err
}
