package ranking

import (
	"sort"

	"fightcade-tracker/internal/domain"
	"fightcade-tracker/internal/stats"
)

// WinCount orders players by cumulative round wins, descending. Ties keep
// the pool's insertion order.
type WinCount struct{}

func (WinCount) Label() string { return "total round wins" }

func (WinCount) Rank(players []string, matches []domain.MatchRecord, _ map[string]domain.PlayerRating) []domain.RankingEntry {
	totals := stats.TotalStats(matches)

	entries := make([]domain.RankingEntry, 0, len(players))
	for _, p := range players {
		id := domain.CanonicalID(p)
		s := totals[id]
		entries = append(entries, domain.RankingEntry{
			UserID:  id,
			Wins:    s.Wins,
			Losses:  s.Losses,
			Games:   s.Games,
			WinRate: s.WinRate(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Wins > entries[j].Wins
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
