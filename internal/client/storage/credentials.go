package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/filedesk/internal/common"
	"github.com/dmitrijs2005/filedesk/internal/cryptox"
	"github.com/dmitrijs2005/filedesk/internal/dbx"
)

const saltKey = "credential_salt"

const saltSize = 16

// ErrCredentialUnreadable is returned when a stored credential cannot be
// opened with the configured passphrase.
var ErrCredentialUnreadable = errors.New("stored credential cannot be read")

// CredentialStore persists the backend session credential under a single
// metadata key. Reads are served from memory after the first load.
type CredentialStore struct {
	db   *sql.DB
	repo MetadataRepository
	key  []byte

	mu     sync.RWMutex
	cached string
	loaded bool
}

// NewCredentialStore returns a store backed by db. A non-empty passphrase
// turns on sealing; the salt is created on first use and reused afterwards.
func NewCredentialStore(ctx context.Context, db *sql.DB, passphrase string) (*CredentialStore, error) {
	s := &CredentialStore{db: db, repo: NewSQLiteMetadataRepository(db)}

	if passphrase == "" {
		return s, nil
	}

	var salt []byte
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteMetadataRepository(tx)

		var err error
		salt, err = repo.Get(ctx, saltKey)
		if err != nil {
			return err
		}
		if salt != nil {
			return nil
		}

		salt = common.GenerateRandByteArray(saltSize)
		return repo.Set(ctx, saltKey, salt)
	})
	if err != nil {
		return nil, fmt.Errorf("credential salt: %w", err)
	}

	s.key = cryptox.DeriveKey([]byte(passphrase), salt)
	return s, nil
}

// Sealed reports whether credentials are encrypted at rest.
func (s *CredentialStore) Sealed() bool {
	return s.key != nil
}

// Load returns the persisted credential or common.ErrNoCredential.
func (s *CredentialStore) Load(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.loaded {
		v := s.cached
		s.mu.RUnlock()
		if v == "" {
			return "", common.ErrNoCredential
		}
		return v, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.repo.Get(ctx, common.CredentialKey)
	if err != nil {
		return "", err
	}

	token := ""
	if len(raw) > 0 {
		plain := raw
		if s.key != nil {
			plain, err = cryptox.Open(raw, s.key)
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrCredentialUnreadable, err)
			}
		}
		token = string(plain)
	}

	s.cached = token
	s.loaded = true

	if token == "" {
		return "", common.ErrNoCredential
	}
	return token, nil
}

// Save persists token, replacing any previous credential.
func (s *CredentialStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}

	value := []byte(token)
	if s.key != nil {
		sealed, err := cryptox.Seal(value, s.key)
		if err != nil {
			return err
		}
		value = sealed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Set(ctx, common.CredentialKey, value); err != nil {
		return err
	}
	s.cached = token
	s.loaded = true
	return nil
}

// Clear removes the credential. Clearing an empty store is not an error.
func (s *CredentialStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, common.CredentialKey); err != nil {
		return err
	}
	s.cached = ""
	s.loaded = true
	return nil
}
