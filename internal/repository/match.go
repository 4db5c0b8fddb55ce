package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fightcade-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// MatchRepository is the append-only match store. Records are deduplicated
// on write by MatchRecord.DedupKey and kept in append order.
type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: sqlDB, logger: logger}
}

// AppendMatches writes every non-duplicate record in input order inside a
// single transaction and returns the records that were actually added plus
// the duplicate count. Either all non-duplicates land or none do.
func (r *MatchRepository) AppendMatches(ctx context.Context, records []domain.MatchRecord) ([]domain.MatchRecord, int, error) {
	if len(records) == 0 {
		return nil, 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matches (dedup_key, date, game, player1, player2, score1, score2, match_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dedup_key) DO NOTHING`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var added []domain.MatchRecord
	skipped := 0
	now := time.Now()
	for _, m := range records {
		res, err := stmt.ExecContext(ctx, m.DedupKey(), m.Date, m.Game, m.Player1, m.Player2, m.Score1, m.Score2, m.MatchType, now)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to insert match %s: %w", m.DedupKey(), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			skipped++
			continue
		}
		added = append(added, m)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit matches: %w", err)
	}

	r.logger.Debug().Int("added", len(added)).Int("skipped", skipped).Msg("matches appended")
	return added, skipped, nil
}

// AllMatches returns every record in append order. Read failures degrade to
// an empty dataset: availability is preferred over surfacing a corrupt store.
func (r *MatchRepository) AllMatches(ctx context.Context) []domain.MatchRecord {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, game, player1, player2, score1, score2, match_type
		FROM matches ORDER BY seq`)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to read matches, treating store as empty")
		return []domain.MatchRecord{}
	}
	defer rows.Close()

	var matches []domain.MatchRecord
	for rows.Next() {
		var m domain.MatchRecord
		if err := rows.Scan(&m.Date, &m.Game, &m.Player1, &m.Player2, &m.Score1, &m.Score2, &m.MatchType); err != nil {
			r.logger.Warn().Err(err).Msg("failed to scan match row, treating store as empty")
			return []domain.MatchRecord{}
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		r.logger.Warn().Err(err).Msg("failed to iterate matches, treating store as empty")
		return []domain.MatchRecord{}
	}
	return matches
}

// AllPlayers returns the lower-cased set of player identities seen in any
// match, excluding empty names.
func (r *MatchRepository) AllPlayers(ctx context.Context) []string {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p FROM (
			SELECT LOWER(player1) AS p, seq FROM matches
			UNION ALL
			SELECT LOWER(player2) AS p, seq FROM matches
		)
		WHERE p != ''
		GROUP BY p
		ORDER BY MIN(seq)`)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to read players, treating store as empty")
		return []string{}
	}
	defer rows.Close()

	var players []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			r.logger.Warn().Err(err).Msg("failed to scan player row, treating store as empty")
			return []string{}
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Warn().Err(err).Msg("failed to iterate players, treating store as empty")
		return []string{}
	}
	return players
}

// ReplaceAll drops the entire store and writes the given records in order.
// Used by import, which replaces prior state wholesale.
func (r *MatchRepository) ReplaceAll(ctx context.Context, records []domain.MatchRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches`); err != nil {
		return fmt.Errorf("failed to clear matches: %w", err)
	}

	now := time.Now()
	for _, m := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO matches (dedup_key, date, game, player1, player2, score1, score2, match_type, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(dedup_key) DO NOTHING`,
			m.DedupKey(), m.Date, m.Game, m.Player1, m.Player2, m.Score1, m.Score2, m.MatchType, now)
		if err != nil {
			return fmt.Errorf("failed to insert match %s: %w", m.DedupKey(), err)
		}
	}

	return tx.Commit()
}
