package domain

import (
	"fmt"
	"strings"
	"time"
)

// MatchRecord is one completed head-to-head game. Records are immutable once
// stored; re-importing overlapping data is idempotent via DedupKey.
type MatchRecord struct {
	Date      string `json:"date"`
	Game      string `json:"game"`
	Player1   string `json:"player1"`
	Player2   string `json:"player2"`
	Score1    int    `json:"score1"`
	Score2    int    `json:"score2"`
	MatchType string `json:"match_type,omitempty"` // free-form label, e.g. "FT3"
}

// CanonicalID lower-cases a player name for lookups and equality. Display
// casing is kept separately and never compared.
func CanonicalID(player string) string {
	return strings.ToLower(strings.TrimSpace(player))
}

// DedupKey identifies a match regardless of which slot each player occupies:
// players are sorted before keying, and each score travels with its player.
func (m MatchRecord) DedupKey() string {
	p1, p2 := CanonicalID(m.Player1), CanonicalID(m.Player2)
	s1, s2 := m.Score1, m.Score2
	if p1 > p2 {
		p1, p2 = p2, p1
		s1, s2 = s2, s1
	}
	return fmt.Sprintf("%s|%s|%s|%d|%d", m.Date, p1, p2, s1, s2)
}

// Winner returns the display name of the side with the strictly greater
// score, or "" on a draw.
func (m MatchRecord) Winner() string {
	switch {
	case m.Score1 > m.Score2:
		return m.Player1
	case m.Score2 > m.Score1:
		return m.Player2
	default:
		return ""
	}
}

// Involves reports whether the given player (case-insensitive) played in
// this match.
func (m MatchRecord) Involves(player string) bool {
	id := CanonicalID(player)
	return CanonicalID(m.Player1) == id || CanonicalID(m.Player2) == id
}

// PlayerStats aggregates round totals for one player. Wins and losses count
// rounds; Games counts matches.
type PlayerStats struct {
	Wins   int
	Losses int
	Games  int
}

func (s PlayerStats) WinRate() float64 {
	total := s.Wins + s.Losses
	if total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(total)
}

// HeadToHead is the aggregated round-score outcome between exactly two
// players. Zero values are a valid "no data" result, not an error.
type HeadToHead struct {
	ARounds int
	BRounds int
	Games   int
}

// PlayerRating is the rating engine's per-player state. Keyed by CanonicalID;
// mutated only by the engine's per-match update.
type PlayerRating struct {
	PlayerID    string  `json:"player_id"`
	DisplayName string  `json:"display_name"`
	Rating      float64 `json:"rating"`
	RD          float64 `json:"rd"`
	Games       int     `json:"games"`
	LastPlayed  string  `json:"last_played,omitempty"`
}

// RatingChange is one audit row recording how a single match moved a
// player's rating.
type RatingChange struct {
	ID       string  `json:"id"`
	MatchKey string  `json:"match_key"`
	PlayerID string  `json:"player_id"`
	Rating   float64 `json:"rating"`
	Delta    float64 `json:"delta"`
	RD       float64 `json:"rd"`
	Date     string  `json:"date"`
}

// RankingEntry is one row of ranking output. Which fields are populated
// depends on the active policy; entries are recomputed on every request and
// never persisted.
type RankingEntry struct {
	Rank    int     `json:"rank"`
	UserID  string  `json:"user_id"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`
	Rating  float64 `json:"rating,omitempty"`
	RD      float64 `json:"rd,omitempty"`
}

// RosterEntry is a tracked player on the user list.
type RosterEntry struct {
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	AddedAt     time.Time `json:"added_at"`
}

// BlockedPlayer is an entry on the bad-manner list.
type BlockedPlayer struct {
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	Reason      string    `json:"reason,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// ExportDocument is the bulk dump/restore format. Import fully replaces
// prior state; there is no merge.
type ExportDocument struct {
	ExportedAt time.Time       `json:"exported_at"`
	Matches    []MatchRecord   `json:"matches"`
	Ratings    []PlayerRating  `json:"ratings"`
	Roster     []RosterEntry   `json:"roster"`
	Blocklist  []BlockedPlayer `json:"blocklist"`
}
