package service

import (
	"context"
	"fmt"
	"sort"

	"fightcade-tracker/internal/constants"
	"fightcade-tracker/internal/domain"
	"fightcade-tracker/internal/rating"
	"fightcade-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// RatingService owns the rating engine and keeps its state persisted: every
// applied match writes both updated tuples plus two audit rows.
type RatingService struct {
	engine      *rating.Engine
	ratingRepo  *repository.RatingRepository
	historyRepo *repository.RatingHistoryRepository
	matchRepo   *repository.MatchRepository
	logger      zerolog.Logger
}

func NewRatingService(
	ratingRepo *repository.RatingRepository,
	historyRepo *repository.RatingHistoryRepository,
	matchRepo *repository.MatchRepository,
	logger zerolog.Logger,
) *RatingService {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	engine := rating.NewEngine()
	engine.Load(ratingRepo.GetAll(ctx))

	return &RatingService{
		engine:      engine,
		ratingRepo:  ratingRepo,
		historyRepo: historyRepo,
		matchRepo:   matchRepo,
		logger:      logger,
	}
}

// RatingOf returns the current tuple for a player, defaulted if unseen.
func (s *RatingService) RatingOf(player string) domain.PlayerRating {
	return s.engine.RatingOf(player)
}

// Ratings returns all tracked tuples keyed by canonical player id.
func (s *RatingService) Ratings() map[string]domain.PlayerRating {
	return s.engine.Ratings()
}

// Snapshot returns all tracked tuples sorted by player id.
func (s *RatingService) Snapshot() []domain.PlayerRating {
	return s.engine.Snapshot()
}

// Apply runs the per-match rating update and persists both sides as one
// logical write, returning the signed deltas in slot order.
func (s *RatingService) Apply(ctx context.Context, m domain.MatchRecord) (float64, float64, error) {
	delta1, delta2 := s.engine.ApplyMatch(m)
	r1 := s.engine.RatingOf(m.Player1)
	r2 := s.engine.RatingOf(m.Player2)

	if err := s.ratingRepo.UpsertPair(ctx, r1, r2); err != nil {
		s.logger.Error().Err(err).Str("match", m.DedupKey()).Msg("failed to persist rating update")
		return delta1, delta2, fmt.Errorf("failed to persist rating update: %w", err)
	}

	changes := []domain.RatingChange{
		{MatchKey: m.DedupKey(), PlayerID: r1.PlayerID, Rating: r1.Rating, Delta: delta1, RD: r1.RD, Date: m.Date},
		{MatchKey: m.DedupKey(), PlayerID: r2.PlayerID, Rating: r2.Rating, Delta: delta2, RD: r2.RD, Date: m.Date},
	}
	if err := s.historyRepo.InsertBatch(ctx, changes); err != nil {
		// the audit trail is best-effort; the rating tuples are already durable
		s.logger.Warn().Err(err).Str("match", m.DedupKey()).Msg("failed to record rating history")
	}

	s.logger.Debug().
		Str("match", m.DedupKey()).
		Float64("delta1", delta1).
		Float64("delta2", delta2).
		Msg("rating update applied")
	return delta1, delta2, nil
}

// ApplyAll applies new records in ascending date order; ratings are
// path-dependent so the order matters.
func (s *RatingService) ApplyAll(ctx context.Context, records []domain.MatchRecord) error {
	ordered := make([]domain.MatchRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	for _, m := range ordered {
		if _, _, err := s.Apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeAll resets every rating and replays the full match log in
// chronological order, rewriting the persisted table. The stale audit trail
// is dropped. Returns the number of rated players.
func (s *RatingService) RecomputeAll(ctx context.Context) (int, error) {
	matches := s.matchRepo.AllMatches(ctx)
	s.engine.RecomputeAll(matches)

	snapshot := s.engine.Snapshot()
	if err := s.ratingRepo.ReplaceAll(ctx, snapshot); err != nil {
		return 0, fmt.Errorf("failed to persist recomputed ratings: %w", err)
	}
	if err := s.historyRepo.DeleteAll(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear rating history after recompute")
	}

	s.logger.Info().Int("players", len(snapshot)).Int("matches", len(matches)).Msg("ratings recomputed")
	return len(snapshot), nil
}

// History returns a player's most recent rating changes.
func (s *RatingService) History(ctx context.Context, player string, limit int) ([]domain.RatingChange, error) {
	return s.historyRepo.GetByPlayer(ctx, player, limit)
}
