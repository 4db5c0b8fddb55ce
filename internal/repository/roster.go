package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fightcade-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// RosterRepository manages the tracked-player list.
type RosterRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRosterRepository(sqlDB *sql.DB, logger zerolog.Logger) *RosterRepository {
	return &RosterRepository{db: sqlDB, logger: logger}
}

// Add registers a player, returning false if the id is already present.
func (r *RosterRepository) Add(ctx context.Context, displayName string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO roster (player_id, display_name, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT(player_id) DO NOTHING`,
		domain.CanonicalID(displayName), strings.TrimSpace(displayName), time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to add roster entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Remove deletes a player, returning false if the id was not present.
func (r *RosterRepository) Remove(ctx context.Context, playerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roster WHERE player_id = ?`, domain.CanonicalID(playerID))
	if err != nil {
		return false, fmt.Errorf("failed to remove roster entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *RosterRepository) List(ctx context.Context) ([]domain.RosterEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, display_name, added_at FROM roster ORDER BY added_at, player_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	defer rows.Close()
	return scanRosterRows(rows)
}

// Search returns the first entry whose id contains the query
// (case-insensitive), or nil if none match.
func (r *RosterRepository) Search(ctx context.Context, query string) (*domain.RosterEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT player_id, display_name, added_at FROM roster
		WHERE player_id LIKE ?
		ORDER BY added_at, player_id
		LIMIT 1`, "%"+domain.CanonicalID(query)+"%")

	var e domain.RosterEntry
	if err := row.Scan(&e.PlayerID, &e.DisplayName, &e.AddedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search roster: %w", err)
	}
	return &e, nil
}

// ReplaceAll swaps the roster wholesale, used by import.
func (r *RosterRepository) ReplaceAll(ctx context.Context, entries []domain.RosterEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM roster`); err != nil {
		return fmt.Errorf("failed to clear roster: %w", err)
	}
	for _, e := range entries {
		addedAt := e.AddedAt
		if addedAt.IsZero() {
			addedAt = time.Now()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO roster (player_id, display_name, added_at)
			VALUES (?, ?, ?)
			ON CONFLICT(player_id) DO NOTHING`,
			domain.CanonicalID(e.DisplayName), e.DisplayName, addedAt)
		if err != nil {
			return fmt.Errorf("failed to insert roster entry %s: %w", e.PlayerID, err)
		}
	}

	return tx.Commit()
}

func scanRosterRows(rows *sql.Rows) ([]domain.RosterEntry, error) {
	var entries []domain.RosterEntry
	for rows.Next() {
		var e domain.RosterEntry
		if err := rows.Scan(&e.PlayerID, &e.DisplayName, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
