// Package stats derives per-player aggregates from the raw match log. All
// functions are pure single-pass scans; results are recomputed on demand and
// never cached.
package stats

import (
	"fightcade-tracker/internal/domain"
)

// HeadToHead sums round scores between exactly two players across every
// recorded match, regardless of which stored slot each occupied. A pair with
// no matches yields zeros.
func HeadToHead(matches []domain.MatchRecord, playerA, playerB string) domain.HeadToHead {
	a, b := domain.CanonicalID(playerA), domain.CanonicalID(playerB)

	var h2h domain.HeadToHead
	if a == b || a == "" || b == "" {
		return h2h
	}

	for _, m := range matches {
		p1, p2 := domain.CanonicalID(m.Player1), domain.CanonicalID(m.Player2)
		switch {
		case p1 == a && p2 == b:
			h2h.ARounds += m.Score1
			h2h.BRounds += m.Score2
			h2h.Games++
		case p1 == b && p2 == a:
			h2h.ARounds += m.Score2
			h2h.BRounds += m.Score1
			h2h.Games++
		}
	}
	return h2h
}

// TotalStats aggregates wins (rounds taken), losses (rounds dropped) and
// games played for every player mentioned in the match log, keyed by
// canonical id.
func TotalStats(matches []domain.MatchRecord) map[string]domain.PlayerStats {
	totals := make(map[string]domain.PlayerStats)
	for _, m := range matches {
		p1, p2 := domain.CanonicalID(m.Player1), domain.CanonicalID(m.Player2)

		s1 := totals[p1]
		s1.Wins += m.Score1
		s1.Losses += m.Score2
		s1.Games++
		totals[p1] = s1

		s2 := totals[p2]
		s2.Wins += m.Score2
		s2.Losses += m.Score1
		s2.Games++
		totals[p2] = s2
	}
	return totals
}

// DisplayNames maps each canonical id to its first-seen original casing.
// Display casing is presentation-only and never used for comparison.
func DisplayNames(matches []domain.MatchRecord) map[string]string {
	names := make(map[string]string)
	for _, m := range matches {
		for _, name := range []string{m.Player1, m.Player2} {
			id := domain.CanonicalID(name)
			if _, seen := names[id]; !seen {
				names[id] = name
			}
		}
	}
	return names
}
