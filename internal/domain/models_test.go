package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalID(t *testing.T) {
	assert.Equal(t, "daigo", CanonicalID("Daigo"))
	assert.Equal(t, "daigo", CanonicalID("  DAIGO  "))
	assert.Equal(t, "", CanonicalID("   "))
}

func TestDedupKeySymmetry(t *testing.T) {
	a := MatchRecord{Date: "2024-03-09", Player1: "Daigo", Player2: "Tokido", Score1: 3, Score2: 1}
	b := MatchRecord{Date: "2024-03-09", Player1: "tokido", Player2: "daigo", Score1: 1, Score2: 3}

	// the same match seen from either side keys identically
	assert.Equal(t, a.DedupKey(), b.DedupKey())

	// a different result between the same pair is a different match
	c := MatchRecord{Date: "2024-03-09", Player1: "Tokido", Player2: "Daigo", Score1: 3, Score2: 1}
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
}

func TestDedupKeyDistinguishesDates(t *testing.T) {
	a := MatchRecord{Date: "2024-03-09", Player1: "a", Player2: "b", Score1: 3, Score2: 1}
	b := MatchRecord{Date: "2024-03-10", Player1: "a", Player2: "b", Score1: 3, Score2: 1}
	assert.NotEqual(t, a.DedupKey(), b.DedupKey())
}

func TestWinner(t *testing.T) {
	assert.Equal(t, "A", MatchRecord{Player1: "A", Player2: "B", Score1: 3, Score2: 1}.Winner())
	assert.Equal(t, "B", MatchRecord{Player1: "A", Player2: "B", Score1: 0, Score2: 2}.Winner())
	assert.Equal(t, "", MatchRecord{Player1: "A", Player2: "B", Score1: 2, Score2: 2}.Winner())
}

func TestInvolves(t *testing.T) {
	m := MatchRecord{Player1: "Daigo", Player2: "Tokido"}
	assert.True(t, m.Involves("daigo"))
	assert.True(t, m.Involves("TOKIDO"))
	assert.False(t, m.Involves("justin"))
}

func TestWinRate(t *testing.T) {
	assert.Equal(t, 0.75, PlayerStats{Wins: 3, Losses: 1}.WinRate())
	assert.Equal(t, 0.0, PlayerStats{}.WinRate())
}
