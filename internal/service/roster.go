package service

import (
	"context"
	"fmt"

	"fightcade-tracker/internal/api"
	"fightcade-tracker/internal/constants"
	"fightcade-tracker/internal/domain"
	"fightcade-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// RosterService manages the tracked-player list and the bad-manner list.
type RosterService struct {
	rosterRepo *repository.RosterRepository
	blockRepo  *repository.BlocklistRepository
	client     *api.FightcadeClient
	logger     zerolog.Logger
}

func NewRosterService(
	rosterRepo *repository.RosterRepository,
	blockRepo *repository.BlocklistRepository,
	client *api.FightcadeClient,
	logger zerolog.Logger,
) *RosterService {
	return &RosterService{rosterRepo: rosterRepo, blockRepo: blockRepo, client: client, logger: logger}
}

// AddUser registers a player; with verify set, the id is checked against the
// Fightcade API first. Returns false when the id is already on the roster.
func (s *RosterService) AddUser(ctx context.Context, displayName string, verify bool) (bool, error) {
	if domain.CanonicalID(displayName) == "" {
		return false, fmt.Errorf("user id is required")
	}

	if verify {
		apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		defer cancel()

		exists, err := s.client.UserExists(apiCtx, displayName)
		if err != nil {
			return false, fmt.Errorf("failed to verify user %s: %w", displayName, err)
		}
		if !exists {
			return false, fmt.Errorf("user %s is not known to fightcade", displayName)
		}
	}

	added, err := s.rosterRepo.Add(ctx, displayName)
	if err != nil {
		return false, err
	}
	if added {
		s.logger.Info().Str("user", displayName).Msg("user added to roster")
	}
	return added, nil
}

func (s *RosterService) RemoveUser(ctx context.Context, playerID string) (bool, error) {
	return s.rosterRepo.Remove(ctx, playerID)
}

func (s *RosterService) Users(ctx context.Context) ([]domain.RosterEntry, error) {
	return s.rosterRepo.List(ctx)
}

func (s *RosterService) SearchUser(ctx context.Context, query string) (*domain.RosterEntry, error) {
	return s.rosterRepo.Search(ctx, query)
}

// Block flags a player as bad-mannered with an optional reason.
func (s *RosterService) Block(ctx context.Context, displayName, reason string) (bool, error) {
	if domain.CanonicalID(displayName) == "" {
		return false, fmt.Errorf("user id is required")
	}
	added, err := s.blockRepo.Add(ctx, displayName, reason)
	if err != nil {
		return false, err
	}
	if added {
		s.logger.Info().Str("user", displayName).Str("reason", reason).Msg("user blocklisted")
	}
	return added, nil
}

func (s *RosterService) Unblock(ctx context.Context, playerID string) (bool, error) {
	return s.blockRepo.Remove(ctx, playerID)
}

func (s *RosterService) Blocked(ctx context.Context) ([]domain.BlockedPlayer, error) {
	return s.blockRepo.List(ctx)
}

func (s *RosterService) SearchBlocked(ctx context.Context, query string) (*domain.BlockedPlayer, error) {
	return s.blockRepo.Search(ctx, query)
}

// BlockReasons lists reasons already in use, for reuse in the UI.
func (s *RosterService) BlockReasons(ctx context.Context) ([]string, error) {
	return s.blockRepo.Reasons(ctx)
}
