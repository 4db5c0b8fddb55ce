// Package rating maintains per-player skill ratings, updated incrementally
// per match with a margin-weighted Elo formula and a decaying rating
// deviation. Ratings are path-dependent: the same matches replayed in a
// different order produce a different (internally consistent) history, so
// replays always run in chronological order.
package rating

import (
	"math"
	"sort"

	"fightcade-tracker/internal/constants"
	"fightcade-tracker/internal/domain"
)

// Engine is the in-memory rating state machine. It is pure arithmetic over
// well-formed matches and has no failure modes; persistence is the caller's
// concern.
type Engine struct {
	players map[string]*domain.PlayerRating
}

func NewEngine() *Engine {
	return &Engine{players: make(map[string]*domain.PlayerRating)}
}

// Load seeds the engine from persisted tuples, replacing any current state.
func (e *Engine) Load(ratings []domain.PlayerRating) {
	e.players = make(map[string]*domain.PlayerRating, len(ratings))
	for _, pr := range ratings {
		pr := pr
		pr.PlayerID = domain.CanonicalID(pr.PlayerID)
		e.players[pr.PlayerID] = &pr
	}
}

// RatingOf returns the current tuple for a player, defaulting unseen players
// to (1200, 350, 0) without registering them.
func (e *Engine) RatingOf(player string) domain.PlayerRating {
	if pr, ok := e.players[domain.CanonicalID(player)]; ok {
		return *pr
	}
	return domain.PlayerRating{
		PlayerID:    domain.CanonicalID(player),
		DisplayName: player,
		Rating:      constants.StartRating,
		RD:          constants.StartRD,
	}
}

// ApplyMatch runs the per-match update for both sides and returns the signed
// rating change for each, in slot order.
func (e *Engine) ApplyMatch(m domain.MatchRecord) (delta1, delta2 float64) {
	p1 := e.getOrCreate(m.Player1)
	p2 := e.getOrCreate(m.Player2)

	expected1 := 1 / (1 + math.Pow(10, (p2.Rating-p1.Rating)/400))
	expected2 := 1 - expected1

	var actual1, actual2 float64
	switch {
	case m.Score1 > m.Score2:
		actual1, actual2 = 1, 0
	case m.Score2 > m.Score1:
		actual1, actual2 = 0, 1
	default:
		actual1, actual2 = 0.5, 0.5
	}

	margin := marginMultiplier(m.Score1, m.Score2)

	delta1 = constants.KFactor * (actual1 - expected1) * margin
	delta2 = constants.KFactor * (actual2 - expected2) * margin

	p1.Rating += delta1
	p2.Rating += delta2
	p1.RD = math.Max(constants.RDFloor, p1.RD*constants.RDDecay)
	p2.RD = math.Max(constants.RDFloor, p2.RD*constants.RDDecay)
	p1.Games++
	p2.Games++
	p1.LastPlayed = m.Date
	p2.LastPlayed = m.Date

	return delta1, delta2
}

// RecomputeAll resets every rating to defaults and replays the given matches
// in ascending date order. Equal dates keep their input order, so repeated
// runs over the same log are bit-identical.
func (e *Engine) RecomputeAll(matches []domain.MatchRecord) {
	e.players = make(map[string]*domain.PlayerRating)

	ordered := make([]domain.MatchRecord, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})

	for _, m := range ordered {
		e.ApplyMatch(m)
	}
}

// Snapshot returns all tracked tuples sorted by player id.
func (e *Engine) Snapshot() []domain.PlayerRating {
	out := make([]domain.PlayerRating, 0, len(e.players))
	for _, pr := range e.players {
		out = append(out, *pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// Ratings returns the tracked tuples keyed by player id.
func (e *Engine) Ratings() map[string]domain.PlayerRating {
	out := make(map[string]domain.PlayerRating, len(e.players))
	for id, pr := range e.players {
		out[id] = *pr
	}
	return out
}

func (e *Engine) getOrCreate(player string) *domain.PlayerRating {
	id := domain.CanonicalID(player)
	if pr, ok := e.players[id]; ok {
		return pr
	}
	pr := &domain.PlayerRating{
		PlayerID:    id,
		DisplayName: player,
		Rating:      constants.StartRating,
		RD:          constants.StartRD,
	}
	e.players[id] = pr
	return pr
}

// marginMultiplier amplifies rating change based on how lopsided the win
// was. The breakpoints are game-design constants carried over as-is, not
// derived from a formula.
func marginMultiplier(score1, score2 int) float64 {
	win, lose := score1, score2
	if score2 > score1 {
		win, lose = score2, score1
	}

	switch gap := win - lose; {
	case gap >= 3:
		return 1.5
	case gap == 2:
		if win >= 3 {
			return 1.3
		}
		return 1.25
	case gap == 1:
		if win <= 2 {
			return 1.1
		}
		return 1.0
	default:
		return 1.0
	}
}
