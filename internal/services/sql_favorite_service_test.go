package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func favoriteIDs(t *testing.T, svc FavoriteService, userID string) []int64 {
	t.Helper()
	favs, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	ids := make([]int64, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestFavoriteAddRemoveRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewSQLFavoriteService(newTestDB(t))

	_, err := svc.Add(ctx, "alice", 716429, "Pasta with Garlic")
	require.NoError(t, err)
	before := favoriteIDs(t, svc, "alice")

	_, err = svc.Add(ctx, "alice", 715538, "Bruschetta")
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, "alice", 715538))

	assert.Equal(t, before, favoriteIDs(t, svc, "alice"))
}

func TestFavoriteDuplicateIsRejected(t *testing.T) {
	ctx := context.Background()
	svc := NewSQLFavoriteService(newTestDB(t))

	_, err := svc.Add(ctx, "alice", 1, "Soup")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "alice", 1, "Soup")
	assert.ErrorIs(t, err, ErrAlreadyFavorited)

	// Another user may favorite the same recipe.
	_, err = svc.Add(ctx, "bob", 1, "Soup")
	require.NoError(t, err)
	assert.Len(t, favoriteIDs(t, svc, "alice"), 1)
}

func TestFavoriteRemoveIsScopedByUser(t *testing.T) {
	ctx := context.Background()
	svc := NewSQLFavoriteService(newTestDB(t))

	_, err := svc.Add(ctx, "alice", 42, "Curry")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Remove(ctx, "bob", 42), ErrFavoriteNotFound)
	assert.Len(t, favoriteIDs(t, svc, "alice"), 1)

	n, err := svc.RemoveAll(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFavoriteBadInput(t *testing.T) {
	ctx := context.Background()
	svc := NewSQLFavoriteService(newTestDB(t))

	_, err := svc.Add(ctx, "", 1, "x")
	assert.ErrorIs(t, err, ErrFavoriteBadInput, "empty user")
	_, err = svc.Add(ctx, "alice", 0, "x")
	assert.ErrorIs(t, err, ErrFavoriteBadInput, "zero id")
	_, err = svc.Add(ctx, "alice", 1, "  ")
	assert.ErrorIs(t, err, ErrFavoriteBadInput, "blank title")
}
