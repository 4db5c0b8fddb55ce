package ranking

import (
	"sort"

	"fightcade-tracker/internal/constants"
	"fightcade-tracker/internal/domain"
	"fightcade-tracker/internal/stats"
)

// RatingFirst orders eligible players by (rating, winRate, games),
// descending. Provisional players, those with fewer than MinRankedGames
// rated games, exist in storage but are excluded from the output entirely.
type RatingFirst struct{}

func (RatingFirst) Label() string { return "skill rating (provisional players hidden)" }

func (RatingFirst) Rank(players []string, matches []domain.MatchRecord, ratings map[string]domain.PlayerRating) []domain.RankingEntry {
	totals := stats.TotalStats(matches)

	entries := make([]domain.RankingEntry, 0, len(players))
	for _, p := range players {
		id := domain.CanonicalID(p)
		pr, ok := ratings[id]
		if !ok || pr.Games < constants.MinRankedGames {
			continue
		}
		s := totals[id]
		entries = append(entries, domain.RankingEntry{
			UserID:  id,
			Wins:    s.Wins,
			Losses:  s.Losses,
			Games:   s.Games,
			WinRate: s.WinRate(),
			Rating:  pr.Rating,
			RD:      pr.RD,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		return a.Games > b.Games
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
