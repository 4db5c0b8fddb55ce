package ranking

import (
	"sort"

	"fightcade-tracker/internal/domain"
	"fightcade-tracker/internal/stats"
)

// Dominance orders players by their pairwise "beats" relation: for every
// pair with at least one recorded match, the side with strictly more
// cumulative rounds dominates. Sort key, descending priority: net dominance
// (dominated minus dominated-by), count of players dominated, total round
// wins, overall win rate.
//
// The relation is not guaranteed acyclic; A>B>C>A simply falls out of the
// tie-break chain rather than being resolved into a true total order.
type Dominance struct{}

func (Dominance) Label() string { return "head-to-head dominance" }

func (Dominance) Rank(players []string, matches []domain.MatchRecord, _ map[string]domain.PlayerRating) []domain.RankingEntry {
	totals := stats.TotalStats(matches)

	dominated := make(map[string]int, len(players))
	dominatedBy := make(map[string]int, len(players))
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			a, b := domain.CanonicalID(players[i]), domain.CanonicalID(players[j])
			h2h := stats.HeadToHead(matches, a, b)
			if h2h.Games == 0 {
				continue
			}
			switch {
			case h2h.ARounds > h2h.BRounds:
				dominated[a]++
				dominatedBy[b]++
			case h2h.BRounds > h2h.ARounds:
				dominated[b]++
				dominatedBy[a]++
			}
			// equal round totals leave both sides at 0 for this pair
		}
	}

	entries := make([]domain.RankingEntry, 0, len(players))
	net := make(map[string]int, len(players))
	for _, p := range players {
		id := domain.CanonicalID(p)
		s := totals[id]
		net[id] = dominated[id] - dominatedBy[id]
		entries = append(entries, domain.RankingEntry{
			UserID:  id,
			Wins:    s.Wins,
			Losses:  s.Losses,
			Games:   s.Games,
			WinRate: s.WinRate(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if net[a.UserID] != net[b.UserID] {
			return net[a.UserID] > net[b.UserID]
		}
		if dominated[a.UserID] != dominated[b.UserID] {
			return dominated[a.UserID] > dominated[b.UserID]
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.WinRate > b.WinRate
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
