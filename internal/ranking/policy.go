// Package ranking turns accumulated stats and ratings into a total order
// over players. The ordering rule is a pluggable policy; three rules exist
// and callers swap implementations rather than branching.
package ranking

import (
	"fmt"

	"fightcade-tracker/internal/domain"
)

// Policy produces a 1-based ranking over the given player pool. Which entry
// fields are populated depends on the policy; an empty pool yields an empty
// slice, never an error.
type Policy interface {
	Rank(players []string, matches []domain.MatchRecord, ratings map[string]domain.PlayerRating) []domain.RankingEntry
	Label() string
}

// ForName resolves the configured policy name.
func ForName(name string) (Policy, error) {
	switch name {
	case "wins":
		return WinCount{}, nil
	case "dominance":
		return Dominance{}, nil
	case "rating":
		return RatingFirst{}, nil
	default:
		return nil, fmt.Errorf("unknown ranking policy %q", name)
	}
}
