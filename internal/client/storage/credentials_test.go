package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/filedesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStore_EmptyStore(t *testing.T) {
	s, err := NewCredentialStore(context.Background(), openTestDB(t), "")
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrNoCredential)
	assert.False(t, s.Sealed())
}

func TestCredentialStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s, err := NewCredentialStore(ctx, openTestDB(t), "")
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "abc123"))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, common.ErrNoCredential)

	// clearing twice is fine
	require.NoError(t, s.Clear(ctx))
}

func TestCredentialStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	db, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	s, err := NewCredentialStore(ctx, db, "pass")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "persisted"))
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	s, err = NewCredentialStore(ctx, db, "pass")
	require.NoError(t, err)
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)
}

func TestCredentialStore_SealedAtRest(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	s, err := NewCredentialStore(ctx, db, "secret")
	require.NoError(t, err)
	require.True(t, s.Sealed())
	require.NoError(t, s.Save(ctx, "plain-token"))

	raw, err := NewSQLiteMetadataRepository(db).Get(ctx, common.CredentialKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "plain-token")

	wrong, err := NewCredentialStore(ctx, db, "other")
	require.NoError(t, err)
	_, err = wrong.Load(ctx)
	assert.ErrorIs(t, err, ErrCredentialUnreadable)
}
