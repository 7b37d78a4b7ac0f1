package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadata_SetGetUpsert(t *testing.T) {
	r := NewSQLiteMetadataRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestMetadata_GetMissingReturnsNilNil(t *testing.T) {
	r := NewSQLiteMetadataRepository(openTestDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestMetadata_DeleteAndList(t *testing.T) {
	r := NewSQLiteMetadataRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "never-there"))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{"b": {2}}, all)
}
