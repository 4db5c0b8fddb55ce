package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fightcade-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// RatingRepository persists the rating engine's per-player tuples.
type RatingRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRatingRepository(sqlDB *sql.DB, logger zerolog.Logger) *RatingRepository {
	return &RatingRepository{db: sqlDB, logger: logger}
}

// GetAll loads every persisted rating. Like the match store, read failures
// degrade to an empty dataset; the engine re-defaults unseen players.
func (r *RatingRepository) GetAll(ctx context.Context) []domain.PlayerRating {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, display_name, rating, rd, games, last_played
		FROM ratings ORDER BY player_id`)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to read ratings, treating store as empty")
		return []domain.PlayerRating{}
	}
	defer rows.Close()

	var ratings []domain.PlayerRating
	for rows.Next() {
		var pr domain.PlayerRating
		if err := rows.Scan(&pr.PlayerID, &pr.DisplayName, &pr.Rating, &pr.RD, &pr.Games, &pr.LastPlayed); err != nil {
			r.logger.Warn().Err(err).Msg("failed to scan rating row, treating store as empty")
			return []domain.PlayerRating{}
		}
		ratings = append(ratings, pr)
	}
	if err := rows.Err(); err != nil {
		r.logger.Warn().Err(err).Msg("failed to iterate ratings, treating store as empty")
		return []domain.PlayerRating{}
	}
	return ratings
}

// UpsertPair writes both sides of a match update as one logical write.
func (r *RatingRepository) UpsertPair(ctx context.Context, a, b domain.PlayerRating) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, pr := range []domain.PlayerRating{a, b} {
		if err := upsertRating(ctx, tx, pr); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReplaceAll rewrites the whole rating table, used after a full recompute.
func (r *RatingRepository) ReplaceAll(ctx context.Context, ratings []domain.PlayerRating) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ratings`); err != nil {
		return fmt.Errorf("failed to clear ratings: %w", err)
	}
	for _, pr := range ratings {
		if err := upsertRating(ctx, tx, pr); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func upsertRating(ctx context.Context, tx *sql.Tx, pr domain.PlayerRating) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ratings (player_id, display_name, rating, rd, games, last_played, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			display_name = excluded.display_name,
			rating = excluded.rating,
			rd = excluded.rd,
			games = excluded.games,
			last_played = excluded.last_played,
			updated_at = excluded.updated_at`,
		pr.PlayerID, pr.DisplayName, pr.Rating, pr.RD, pr.Games, pr.LastPlayed, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert rating for %s: %w", pr.PlayerID, err)
	}
	return nil
}
