package service

import (
	"context"
	"fmt"
	"time"

	"fightcade-tracker/internal/domain"
	"fightcade-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// ExportService dumps and restores the whole dataset as one document.
type ExportService struct {
	matchRepo  *repository.MatchRepository
	rosterRepo *repository.RosterRepository
	blockRepo  *repository.BlocklistRepository
	ratingSvc  *RatingService
	logger     zerolog.Logger
}

func NewExportService(
	matchRepo *repository.MatchRepository,
	rosterRepo *repository.RosterRepository,
	blockRepo *repository.BlocklistRepository,
	ratingSvc *RatingService,
	logger zerolog.Logger,
) *ExportService {
	return &ExportService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		blockRepo:  blockRepo,
		ratingSvc:  ratingSvc,
		logger:     logger,
	}
}

func (s *ExportService) Export(ctx context.Context) (*domain.ExportDocument, error) {
	roster, err := s.rosterRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export roster: %w", err)
	}
	blocked, err := s.blockRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export blocklist: %w", err)
	}

	doc := &domain.ExportDocument{
		ExportedAt: time.Now().UTC(),
		Matches:    s.matchRepo.AllMatches(ctx),
		Ratings:    s.ratingSvc.Snapshot(),
		Roster:     roster,
		Blocklist:  blocked,
	}
	s.logger.Info().
		Int("matches", len(doc.Matches)).
		Int("ratings", len(doc.Ratings)).
		Int("roster", len(doc.Roster)).
		Int("blocklist", len(doc.Blocklist)).
		Msg("dataset exported")
	return doc, nil
}

// Import replaces all prior state with the document's contents; there is no
// merge. Ratings are rebuilt from the imported matches rather than trusted
// from the document, so the restored table is consistent with the log.
func (s *ExportService) Import(ctx context.Context, doc *domain.ExportDocument) error {
	if doc == nil {
		return fmt.Errorf("import document is required")
	}

	if err := s.matchRepo.ReplaceAll(ctx, doc.Matches); err != nil {
		return fmt.Errorf("failed to import matches: %w", err)
	}
	if err := s.rosterRepo.ReplaceAll(ctx, doc.Roster); err != nil {
		return fmt.Errorf("failed to import roster: %w", err)
	}
	if err := s.blockRepo.ReplaceAll(ctx, doc.Blocklist); err != nil {
		return fmt.Errorf("failed to import blocklist: %w", err)
	}
	if _, err := s.ratingSvc.RecomputeAll(ctx); err != nil {
		return err
	}

	s.logger.Info().Int("matches", len(doc.Matches)).Msg("dataset imported")
	return nil
}
