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

// BlocklistRepository manages the bad-manner list: players flagged with an
// optional free-form reason.
type BlocklistRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewBlocklistRepository(sqlDB *sql.DB, logger zerolog.Logger) *BlocklistRepository {
	return &BlocklistRepository{db: sqlDB, logger: logger}
}

func (r *BlocklistRepository) Add(ctx context.Context, displayName, reason string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO blocklist (player_id, display_name, reason, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id) DO NOTHING`,
		domain.CanonicalID(displayName), strings.TrimSpace(displayName), strings.TrimSpace(reason), time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to add blocklist entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *BlocklistRepository) Remove(ctx context.Context, playerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocklist WHERE player_id = ?`, domain.CanonicalID(playerID))
	if err != nil {
		return false, fmt.Errorf("failed to remove blocklist entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *BlocklistRepository) List(ctx context.Context) ([]domain.BlockedPlayer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, display_name, reason, added_at FROM blocklist ORDER BY added_at, player_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocklist: %w", err)
	}
	defer rows.Close()
	return scanBlockedRows(rows)
}

// Search returns the first blocked player whose id contains the query, or
// nil if none match.
func (r *BlocklistRepository) Search(ctx context.Context, query string) (*domain.BlockedPlayer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT player_id, display_name, reason, added_at FROM blocklist
		WHERE player_id LIKE ?
		ORDER BY added_at, player_id
		LIMIT 1`, "%"+domain.CanonicalID(query)+"%")

	var b domain.BlockedPlayer
	if err := row.Scan(&b.PlayerID, &b.DisplayName, &b.Reason, &b.AddedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search blocklist: %w", err)
	}
	return &b, nil
}

// Reasons lists distinct non-empty reasons already in use, for reuse when
// flagging another player.
func (r *BlocklistRepository) Reasons(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT reason FROM blocklist WHERE reason != '' ORDER BY reason`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reasons: %w", err)
	}
	defer rows.Close()

	var reasons []string
	for rows.Next() {
		var reason string
		if err := rows.Scan(&reason); err != nil {
			return nil, fmt.Errorf("failed to scan reason: %w", err)
		}
		reasons = append(reasons, reason)
	}
	return reasons, rows.Err()
}

// ReplaceAll swaps the blocklist wholesale, used by import.
func (r *BlocklistRepository) ReplaceAll(ctx context.Context, entries []domain.BlockedPlayer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blocklist`); err != nil {
		return fmt.Errorf("failed to clear blocklist: %w", err)
	}
	for _, b := range entries {
		addedAt := b.AddedAt
		if addedAt.IsZero() {
			addedAt = time.Now()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO blocklist (player_id, display_name, reason, added_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(player_id) DO NOTHING`,
			domain.CanonicalID(b.DisplayName), b.DisplayName, b.Reason, addedAt)
		if err != nil {
			return fmt.Errorf("failed to insert blocklist entry %s: %w", b.PlayerID, err)
		}
	}

	return tx.Commit()
}

func scanBlockedRows(rows *sql.Rows) ([]domain.BlockedPlayer, error) {
	var entries []domain.BlockedPlayer
	for rows.Next() {
		var b domain.BlockedPlayer
		if err := rows.Scan(&b.PlayerID, &b.DisplayName, &b.Reason, &b.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blocklist row: %w", err)
		}
		entries = append(entries, b)
	}
	return entries, rows.Err()
}
