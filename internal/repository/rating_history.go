package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fightcade-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// RatingHistoryRepository keeps the audit trail of per-match rating deltas.
type RatingHistoryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRatingHistoryRepository(sqlDB *sql.DB, logger zerolog.Logger) *RatingHistoryRepository {
	return &RatingHistoryRepository{db: sqlDB, logger: logger}
}

func (r *RatingHistoryRepository) InsertBatch(ctx context.Context, changes []domain.RatingChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, c := range changes {
		id := c.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO rating_history (id, match_key, player_id, rating, delta, rd, date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, c.MatchKey, c.PlayerID, c.Rating, c.Delta, c.RD, c.Date, now)
		if err != nil {
			return fmt.Errorf("failed to insert rating history: %w", err)
		}
	}

	return tx.Commit()
}

func (r *RatingHistoryRepository) GetByPlayer(ctx context.Context, playerID string, limit int) ([]domain.RatingChange, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, match_key, player_id, rating, delta, rd, date
		FROM rating_history
		WHERE player_id = ?
		ORDER BY date DESC
		LIMIT ?`, domain.CanonicalID(playerID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read rating history: %w", err)
	}
	defer rows.Close()

	var changes []domain.RatingChange
	for rows.Next() {
		var c domain.RatingChange
		if err := rows.Scan(&c.ID, &c.MatchKey, &c.PlayerID, &c.Rating, &c.Delta, &c.RD, &c.Date); err != nil {
			return nil, fmt.Errorf("failed to scan rating history row: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// DeleteAll clears the audit trail; a full recompute invalidates it.
func (r *RatingHistoryRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rating_history`); err != nil {
		return fmt.Errorf("failed to clear rating history: %w", err)
	}
	return nil
}
