// Package ingest turns pasted replay-history text into structured match
// records. Malformed lines are rejected here and never reach the store.
package ingest

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fightcade-tracker/internal/domain"
)

// Line format, one match per line:
//
//	<date> <game> <player1> <score1>-<score2> <player2> [matchType]
//
// e.g. "2024-03-09T18:22 sfiii3nr1 daigo 3-1 tokido FT3". Dates are opaque
// sortable strings; nothing beyond non-emptiness is validated.
var lineRe = regexp.MustCompile(`^(\S+)\s+(\S+)\s+(\S+)\s+(\d+)\s*[-:]\s*(\d+)\s+(\S+)(?:\s+(\S+))?$`)

// LineError reports one rejected input line.
type LineError struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ParseText scans pasted text line by line. Blank lines and '#' comments are
// ignored; every other line either yields a MatchRecord or a LineError.
func ParseText(text string) ([]domain.MatchRecord, []LineError) {
	var records []domain.MatchRecord
	var rejected []LineError

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			rejected = append(rejected, LineError{Line: lineNo, Text: line, Reason: "malformed line"})
			continue
		}

		score1, err1 := strconv.Atoi(m[4])
		score2, err2 := strconv.Atoi(m[5])
		if err1 != nil || err2 != nil {
			rejected = append(rejected, LineError{Line: lineNo, Text: line, Reason: "invalid score"})
			continue
		}

		record := domain.MatchRecord{
			Date:      m[1],
			Game:      m[2],
			Player1:   m[3],
			Player2:   m[6],
			Score1:    score1,
			Score2:    score2,
			MatchType: m[7],
		}

		if domain.CanonicalID(record.Player1) == domain.CanonicalID(record.Player2) {
			rejected = append(rejected, LineError{Line: lineNo, Text: line, Reason: "players must differ"})
			continue
		}

		records = append(records, record)
	}

	return records, rejected
}
