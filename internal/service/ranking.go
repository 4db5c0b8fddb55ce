package service

import (
	"context"

	"fightcade-tracker/internal/domain"
	"fightcade-tracker/internal/ranking"
	"fightcade-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// RankingService assembles the player pool, match log and rating table and
// delegates ordering to the configured policy.
type RankingService struct {
	policy    ranking.Policy
	matchRepo *repository.MatchRepository
	ratingSvc *RatingService
	logger    zerolog.Logger
}

func NewRankingService(
	policy ranking.Policy,
	matchRepo *repository.MatchRepository,
	ratingSvc *RatingService,
	logger zerolog.Logger,
) *RankingService {
	return &RankingService{policy: policy, matchRepo: matchRepo, ratingSvc: ratingSvc, logger: logger}
}

// Rank returns the ordered entries plus the active policy's human-readable
// label. No qualifying players yields an empty list, not an error.
func (s *RankingService) Rank(ctx context.Context) (string, []domain.RankingEntry) {
	players := s.matchRepo.AllPlayers(ctx)
	matches := s.matchRepo.AllMatches(ctx)
	entries := s.policy.Rank(players, matches, s.ratingSvc.Ratings())

	s.logger.Debug().
		Str("policy", s.policy.Label()).
		Int("players", len(players)).
		Int("ranked", len(entries)).
		Msg("ranking computed")
	return s.policy.Label(), entries
}
