package dbbadger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxHeightRepository(t *testing.T) {
	repo, err := NewTxHeightRepository("", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.(interface{ Close() error }).Close()
	})
	ctx := context.Background()

	height, seen, err := repo.GetHeight(ctx, "aa")
	require.NoError(t, err)
	assert.False(t, seen)
	assert.Equal(t, int64(0), height)

	err = repo.UpsertHeight(ctx, "aa", 0)
	require.NoError(t, err)

	height, seen, err = repo.GetHeight(ctx, "aa")
	require.NoError(t, err)
	assert.True(t, seen)
	assert.Equal(t, int64(0), height)

	err = repo.UpsertHeight(ctx, "aa", 680000)
	require.NoError(t, err)

	height, seen, err = repo.GetHeight(ctx, "aa")
	require.NoError(t, err)
	assert.True(t, seen)
	assert.Equal(t, int64(680000), height)
}

func TestTxHeightRepositoryPersistsAcrossReopen(t *testing.T) {
	dbDir := t.TempDir()

	repo, err := NewTxHeightRepository(dbDir, nil)
	require.NoError(t, err)

	err = repo.UpsertHeight(context.Background(), "bb", 700000)
	require.NoError(t, err)
	require.NoError(t, repo.(interface{ Close() error }).Close())

	repo, err = NewTxHeightRepository(dbDir, nil)
	require.NoError(t, err)
	defer repo.(interface{ Close() error }).Close()

	height, seen, err := repo.GetHeight(context.Background(), "bb")
	require.NoError(t, err)
	assert.True(t, seen)
	assert.Equal(t, int64(700000), height)
}
