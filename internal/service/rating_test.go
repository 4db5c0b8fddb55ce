package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fightcade-tracker/internal/config"
	"fightcade-tracker/internal/database"
	"fightcade-tracker/internal/domain"
	"fightcade-tracker/internal/repository"
)

type testRepos struct {
	db      *sql.DB
	match   *repository.MatchRepository
	rating  *repository.RatingRepository
	history *repository.RatingHistoryRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "tracker_test.db")}
	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return testRepos{
		db:      db,
		match:   repository.NewMatchRepository(db, zerolog.Nop()),
		rating:  repository.NewRatingRepository(db, zerolog.Nop()),
		history: repository.NewRatingHistoryRepository(db, zerolog.Nop()),
	}
}

func newRatingService(r testRepos) *RatingService {
	return NewRatingService(r.rating, r.history, r.match, zerolog.Nop())
}

func TestApplyPersistsBothSides(t *testing.T) {
	repos := newTestRepos(t)
	svc := newRatingService(repos)
	ctx := context.Background()

	m := domain.MatchRecord{Date: "2025-01-01", Game: "sfiii3nr1", Player1: "Daigo", Player2: "Tokido", Score1: 3, Score2: 0}
	delta1, delta2, err := svc.Apply(ctx, m)
	require.NoError(t, err)
	assert.InDelta(t, 24.0, delta1, 1e-9)
	assert.InDelta(t, -24.0, delta2, 1e-9)

	persisted := repos.rating.GetAll(ctx)
	require.Len(t, persisted, 2)
	assert.Equal(t, "daigo", persisted[0].PlayerID)
	assert.InDelta(t, 1224.0, persisted[0].Rating, 1e-9)
	assert.Equal(t, "tokido", persisted[1].PlayerID)
	assert.InDelta(t, 1176.0, persisted[1].Rating, 1e-9)

	trail, err := svc.History(ctx, "daigo", 10)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, m.DedupKey(), trail[0].MatchKey)
	assert.InDelta(t, 24.0, trail[0].Delta, 1e-9)
}

func TestNewServiceReloadsPersistedState(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	first := newRatingService(repos)
	_, _, err := first.Apply(ctx, domain.MatchRecord{Date: "2025-01-01", Player1: "daigo", Player2: "tokido", Score1: 3, Score2: 0})
	require.NoError(t, err)

	second := newRatingService(repos)
	got := second.RatingOf("daigo")
	assert.InDelta(t, 1224.0, got.Rating, 1e-9)
	assert.Equal(t, 1, got.Games)
}

func TestRecomputeAllRebuildsFromMatchLog(t *testing.T) {
	repos := newTestRepos(t)
	svc := newRatingService(repos)
	ctx := context.Background()

	matches := []domain.MatchRecord{
		{Date: "2025-01-01", Player1: "daigo", Player2: "tokido", Score1: 3, Score2: 0},
		{Date: "2025-01-02", Player1: "tokido", Player2: "daigo", Score1: 3, Score2: 2},
	}
	_, _, err := repos.match.AppendMatches(ctx, matches)
	require.NoError(t, err)
	require.NoError(t, svc.ApplyAll(ctx, matches))

	before := svc.RatingOf("daigo")

	players, err := svc.RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, players)

	after := svc.RatingOf("daigo")
	assert.InDelta(t, before.Rating, after.Rating, 1e-9)
	assert.Equal(t, before.Games, after.Games)

	// A recompute drops the now-stale audit trail.
	trail, err := svc.History(ctx, "daigo", 10)
	require.NoError(t, err)
	assert.Empty(t, trail)

	persisted := repos.rating.GetAll(ctx)
	require.Len(t, persisted, 2)
	assert.InDelta(t, after.Rating, persisted[0].Rating, 1e-9)
}
