package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fightcade-tracker/internal/config"
	"fightcade-tracker/internal/database"
	"fightcade-tracker/internal/ranking"
	"fightcade-tracker/internal/repository"
	"fightcade-tracker/internal/service"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "tracker_test.db"), CrawlPageLimit: 1}
	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	nop := zerolog.Nop()
	matchRepo := repository.NewMatchRepository(db, nop)
	ratingRepo := repository.NewRatingRepository(db, nop)
	historyRepo := repository.NewRatingHistoryRepository(db, nop)
	rosterRepo := repository.NewRosterRepository(db, nop)
	blockRepo := repository.NewBlocklistRepository(db, nop)

	ratingSvc := service.NewRatingService(ratingRepo, historyRepo, matchRepo, nop)
	matchSvc := service.NewMatchService(nil, matchRepo, ratingSvc, cfg, nop)
	rankingSvc := service.NewRankingService(ranking.WinCount{}, matchRepo, ratingSvc, nop)
	rosterSvc := service.NewRosterService(rosterRepo, blockRepo, nil, nop)
	exportSvc := service.NewExportService(matchRepo, rosterRepo, blockRepo, ratingSvc, nop)

	return NewTrackerServer(matchSvc, rankingSvc, ratingSvc, rosterSvc, exportSvc, nop).Routes()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIngestAndQueryFlow(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodPost, "/api/matches/ingest",
		"2025-01-01 sfiii3nr1 daigo 3-0 tokido\n2025-01-02 sfiii3nr1 tokido 3-2 daigo\n")
	require.Equal(t, http.StatusOK, rec.Code)

	var ingest struct {
		Added   int `json:"added"`
		Skipped int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ingest))
	assert.Equal(t, 2, ingest.Added)
	assert.Equal(t, 0, ingest.Skipped)

	rec = doRequest(t, h, http.MethodGet, "/api/h2h?a=daigo&b=tokido", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var h2h map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h2h))
	assert.Equal(t, 5, h2h["a_rounds"])
	assert.Equal(t, 3, h2h["b_rounds"])
	assert.Equal(t, 2, h2h["games"])

	rec = doRequest(t, h, http.MethodGet, "/api/ranking", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rank struct {
		Label   string `json:"label"`
		Entries []struct {
			UserID string `json:"user_id"`
			Rank   int    `json:"rank"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rank))
	assert.Equal(t, "total round wins", rank.Label)
	require.Len(t, rank.Entries, 2)
	assert.Equal(t, 1, rank.Entries[0].Rank)

	rec = doRequest(t, h, http.MethodGet, "/api/players/daigo/rating", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rating struct {
		Rating float64 `json:"rating"`
		Games  int     `json:"games"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rating))
	assert.Equal(t, 2, rating.Games)
}

func TestHeadToHeadRequiresBothPlayers(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/api/h2h?a=daigo", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankingEmptyStore(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/api/ranking", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"entries":[]`)
}

func TestRosterLifecycle(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodPost, "/api/roster", `{"user":"Daigo"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/roster", `{"user":"daigo"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/roster/search?q=dai", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"daigo"`)

	rec = doRequest(t, h, http.MethodDelete, "/api/roster/daigo", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, "/api/roster/daigo", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlocklistLifecycle(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodPost, "/api/blocklist", `{"user":"lagger","reason":"one-bar connection"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/blocklist/reasons", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "one-bar connection")

	rec = doRequest(t, h, http.MethodDelete, "/api/blocklist/lagger", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExportImportRoundTrip(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodPost, "/api/matches/ingest",
		"2025-01-01 sfiii3nr1 daigo 3-1 tokido\n")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, h, http.MethodPost, "/api/roster", `{"user":"daigo"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	exported := rec.Body.String()

	// Restoring into a fresh instance reproduces the dataset.
	fresh := newTestServer(t)
	rec = doRequest(t, fresh, http.MethodPost, "/api/import", exported)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, fresh, http.MethodGet, "/api/h2h?a=daigo&b=tokido", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var h2h map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h2h))
	assert.Equal(t, 1, h2h["games"])

	rec = doRequest(t, fresh, http.MethodGet, "/api/players/daigo/rating", "")
	var rating struct {
		Games int `json:"games"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rating))
	assert.Equal(t, 1, rating.Games)
}
