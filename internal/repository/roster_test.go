package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fightcade-tracker/internal/domain"
)

func TestRosterAddRemove(t *testing.T) {
	repo := NewRosterRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	ok, err := repo.Add(ctx, "Daigo")
	require.NoError(t, err)
	assert.True(t, ok)

	// Same identity under different casing is a no-op.
	ok, err = repo.Add(ctx, "DAIGO")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "daigo", entries[0].PlayerID)
	assert.Equal(t, "Daigo", entries[0].DisplayName)

	ok, err = repo.Remove(ctx, "daigo")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Remove(ctx, "daigo")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRosterSearch(t *testing.T) {
	repo := NewRosterRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	for _, name := range []string{"daigo", "tokido", "nuki"} {
		_, err := repo.Add(ctx, name)
		require.NoError(t, err)
	}

	hit, err := repo.Search(ctx, "OKI")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "tokido", hit.PlayerID)

	miss, err := repo.Search(ctx, "justin")
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestBlocklistReasons(t *testing.T) {
	repo := NewBlocklistRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	ok, err := repo.Add(ctx, "lagger1", "one-bar connection")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Add(ctx, "lagger2", "one-bar connection")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Add(ctx, "rqer", "rage quits")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Add(ctx, "mystery", "")
	require.NoError(t, err)
	assert.True(t, ok)

	reasons, err := repo.Reasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"one-bar connection", "rage quits"}, reasons)

	blocked, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, blocked, 4)

	hit, err := repo.Search(ctx, "rq")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "rage quits", hit.Reason)
}

func TestRatingUpsertPair(t *testing.T) {
	repo := NewRatingRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	a := domain.PlayerRating{PlayerID: "daigo", DisplayName: "Daigo", Rating: 1216, RD: 332.5, Games: 1, LastPlayed: "2025-01-01"}
	b := domain.PlayerRating{PlayerID: "tokido", DisplayName: "Tokido", Rating: 1184, RD: 332.5, Games: 1, LastPlayed: "2025-01-01"}
	require.NoError(t, repo.UpsertPair(ctx, a, b))

	got := repo.GetAll(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])

	a.Rating = 1230
	a.Games = 2
	require.NoError(t, repo.UpsertPair(ctx, a, b))

	got = repo.GetAll(ctx)
	require.Len(t, got, 2)
	assert.InDelta(t, 1230.0, got[0].Rating, 1e-9)
	assert.Equal(t, 2, got[0].Games)
}

func TestRatingReplaceAll(t *testing.T) {
	repo := NewRatingRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.UpsertPair(ctx,
		domain.PlayerRating{PlayerID: "a", Rating: 1200, RD: 350},
		domain.PlayerRating{PlayerID: "b", Rating: 1200, RD: 350}))

	require.NoError(t, repo.ReplaceAll(ctx, []domain.PlayerRating{
		{PlayerID: "c", Rating: 1250, RD: 300, Games: 3},
	}))

	got := repo.GetAll(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].PlayerID)
}

func TestRatingHistoryRoundTrip(t *testing.T) {
	repo := NewRatingHistoryRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	changes := []domain.RatingChange{
		{MatchKey: "k1", PlayerID: "daigo", Rating: 1216, Delta: 16, RD: 332.5, Date: "2025-01-01"},
		{MatchKey: "k1", PlayerID: "tokido", Rating: 1184, Delta: -16, RD: 332.5, Date: "2025-01-01"},
		{MatchKey: "k2", PlayerID: "daigo", Rating: 1230, Delta: 14, RD: 315.875, Date: "2025-01-02"},
	}
	require.NoError(t, repo.InsertBatch(ctx, changes))

	got, err := repo.GetByPlayer(ctx, "DAIGO", 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first.
	assert.Equal(t, "k2", got[0].MatchKey)
	assert.Equal(t, "k1", got[1].MatchKey)
	assert.NotEmpty(t, got[0].ID)

	got, err = repo.GetByPlayer(ctx, "daigo", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, repo.DeleteAll(ctx))
	got, err = repo.GetByPlayer(ctx, "daigo", 50)
	require.NoError(t, err)
	assert.Empty(t, got)
}
