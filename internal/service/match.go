package service

import (
	"context"
	"fmt"

	"fightcade-tracker/internal/api"
	"fightcade-tracker/internal/config"
	"fightcade-tracker/internal/constants"
	"fightcade-tracker/internal/domain"
	"fightcade-tracker/internal/ingest"
	"fightcade-tracker/internal/repository"
	"fightcade-tracker/internal/stats"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MatchService ingests match records from pasted text or the Fightcade API
// and answers head-to-head and aggregate stat queries.
type MatchService struct {
	client    *api.FightcadeClient
	matchRepo *repository.MatchRepository
	ratingSvc *RatingService
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewMatchService(
	client *api.FightcadeClient,
	matchRepo *repository.MatchRepository,
	ratingSvc *RatingService,
	cfg *config.Config,
	logger zerolog.Logger,
) *MatchService {
	return &MatchService{client: client, matchRepo: matchRepo, ratingSvc: ratingSvc, cfg: cfg, logger: logger}
}

// IngestResult reports one ingestion pass: records written, duplicates
// skipped and lines rejected at the validation boundary.
type IngestResult struct {
	Added    int                `json:"added"`
	Skipped  int                `json:"skipped"`
	Rejected []ingest.LineError `json:"rejected,omitempty"`
}

// IngestText parses pasted replay-history text and appends the valid
// records. Duplicates are skipped; malformed lines are reported per line.
func (s *MatchService) IngestText(ctx context.Context, text string) (*IngestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	records, rejected := ingest.ParseText(text)
	s.logger.Info().Int("parsed", len(records)).Int("rejected", len(rejected)).Msg("ingesting pasted text")

	added, skipped, err := s.appendAndRate(ctx, records)
	if err != nil {
		return nil, err
	}
	return &IngestResult{Added: added, Skipped: skipped, Rejected: rejected}, nil
}

// CrawlHeadToHead pulls both players' recent replay pages from the Fightcade
// API concurrently, keeps the replays the two played against each other and
// appends them. The store's dedup makes overlapping crawls idempotent.
func (s *MatchService) CrawlHeadToHead(ctx context.Context, userA, userB string) (*IngestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if domain.CanonicalID(userA) == "" || domain.CanonicalID(userB) == "" {
		return nil, fmt.Errorf("both user ids are required")
	}
	if domain.CanonicalID(userA) == domain.CanonicalID(userB) {
		return nil, fmt.Errorf("user ids must differ")
	}

	limit := s.cfg.CrawlPageLimit * constants.CrawlRowsPerPage
	s.logger.Info().Str("user_a", userA).Str("user_b", userB).Int("limit", limit).Msg("crawling head-to-head replays")

	quarks := make([][]api.Quark, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, user := range []string{userA, userB} {
		i, user := i, user
		g.Go(func() error {
			found, err := s.client.SearchQuarks(gctx, user, limit, 0)
			if err != nil {
				return fmt.Errorf("failed to fetch replays for %s: %w", user, err)
			}
			quarks[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("replay crawl failed")
		return nil, err
	}

	var records []domain.MatchRecord
	for _, page := range quarks {
		for _, q := range page {
			m, ok := q.MatchRecord()
			if !ok {
				continue
			}
			if !m.Involves(userA) || !m.Involves(userB) {
				continue
			}
			records = append(records, m)
		}
	}
	s.logger.Debug().Int("count", len(records)).Msg("replays between the pair")

	added, skipped, err := s.appendAndRate(ctx, records)
	if err != nil {
		return nil, err
	}
	return &IngestResult{Added: added, Skipped: skipped}, nil
}

// appendAndRate writes the non-duplicate records and feeds exactly those
// through the rating engine in date order.
func (s *MatchService) appendAndRate(ctx context.Context, records []domain.MatchRecord) (int, int, error) {
	added, skipped, err := s.matchRepo.AppendMatches(ctx, records)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to append matches: %w", err)
	}
	if err := s.ratingSvc.ApplyAll(ctx, added); err != nil {
		return 0, 0, err
	}
	return len(added), skipped, nil
}

// HeadToHead returns the aggregated round outcome between two players.
// Zeros mean no recorded matches, not an error.
func (s *MatchService) HeadToHead(ctx context.Context, playerA, playerB string) domain.HeadToHead {
	return stats.HeadToHead(s.matchRepo.AllMatches(ctx), playerA, playerB)
}

// Stats returns every player's aggregate totals keyed by canonical id.
func (s *MatchService) Stats(ctx context.Context) map[string]domain.PlayerStats {
	return stats.TotalStats(s.matchRepo.AllMatches(ctx))
}
