package stats

import (
	"testing"

	"fightcade-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func sampleMatches() []domain.MatchRecord {
	return []domain.MatchRecord{
		{Date: "2024-01-01", Player1: "Daigo", Player2: "Tokido", Score1: 3, Score2: 1},
		{Date: "2024-01-02", Player1: "tokido", Player2: "DAIGO", Score1: 2, Score2: 3},
		{Date: "2024-01-03", Player1: "Justin", Player2: "Daigo", Score1: 3, Score2: 0},
	}
}

func TestHeadToHeadAttributesRoundsAcrossSlots(t *testing.T) {
	// daigo appears in both slots across the two matches against tokido
	h2h := HeadToHead(sampleMatches(), "daigo", "tokido")
	assert.Equal(t, 6, h2h.ARounds)
	assert.Equal(t, 3, h2h.BRounds)
	assert.Equal(t, 2, h2h.Games)
}

func TestHeadToHeadSymmetry(t *testing.T) {
	ab := HeadToHead(sampleMatches(), "daigo", "tokido")
	ba := HeadToHead(sampleMatches(), "tokido", "daigo")

	assert.Equal(t, ab.Games, ba.Games)
	assert.Equal(t, ab.ARounds, ba.BRounds)
	assert.Equal(t, ab.BRounds, ba.ARounds)
}

func TestHeadToHeadNoData(t *testing.T) {
	h2h := HeadToHead(sampleMatches(), "justin", "tokido")
	assert.Equal(t, domain.HeadToHead{}, h2h)
}

func TestHeadToHeadSamePlayer(t *testing.T) {
	assert.Equal(t, domain.HeadToHead{}, HeadToHead(sampleMatches(), "daigo", "Daigo"))
}

func TestTotalStats(t *testing.T) {
	totals := TotalStats(sampleMatches())

	assert.Equal(t, domain.PlayerStats{Wins: 6, Losses: 6, Games: 3}, totals["daigo"])
	assert.Equal(t, domain.PlayerStats{Wins: 3, Losses: 6, Games: 2}, totals["tokido"])
	assert.Equal(t, domain.PlayerStats{Wins: 3, Losses: 0, Games: 1}, totals["justin"])
}

func TestTotalStatsEmpty(t *testing.T) {
	assert.Empty(t, TotalStats(nil))
}

func TestDisplayNamesFirstSeenCasing(t *testing.T) {
	names := DisplayNames(sampleMatches())
	assert.Equal(t, "Daigo", names["daigo"])
	assert.Equal(t, "Tokido", names["tokido"])
	assert.Equal(t, "Justin", names["justin"])
}
