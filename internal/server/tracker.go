package server

import (
	"encoding/json"
	"io"
	"net/http"

	"fightcade-tracker/internal/constants"
	"fightcade-tracker/internal/domain"
	"fightcade-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// TrackerServer exposes the tracker over a thin JSON API. It is read-mostly:
// only ingestion, crawling, roster edits and import mutate state.
type TrackerServer struct {
	matchSvc   *service.MatchService
	rankingSvc *service.RankingService
	ratingSvc  *service.RatingService
	rosterSvc  *service.RosterService
	exportSvc  *service.ExportService
	logger     zerolog.Logger
}

func NewTrackerServer(
	matchSvc *service.MatchService,
	rankingSvc *service.RankingService,
	ratingSvc *service.RatingService,
	rosterSvc *service.RosterService,
	exportSvc *service.ExportService,
	logger zerolog.Logger,
) *TrackerServer {
	return &TrackerServer{
		matchSvc:   matchSvc,
		rankingSvc: rankingSvc,
		ratingSvc:  ratingSvc,
		rosterSvc:  rosterSvc,
		exportSvc:  exportSvc,
		logger:     logger,
	}
}

func (s *TrackerServer) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/matches/ingest", s.handleIngest)
		r.Post("/matches/crawl", s.handleCrawl)
		r.Get("/h2h", s.handleHeadToHead)
		r.Get("/stats", s.handleStats)
		r.Get("/ranking", s.handleRanking)

		r.Get("/players/{id}/rating", s.handleRating)
		r.Get("/players/{id}/history", s.handleRatingHistory)
		r.Post("/rating/recompute", s.handleRecompute)

		r.Get("/roster", s.handleRosterList)
		r.Post("/roster", s.handleRosterAdd)
		r.Delete("/roster/{id}", s.handleRosterRemove)
		r.Get("/roster/search", s.handleRosterSearch)

		r.Get("/blocklist", s.handleBlocklist)
		r.Post("/blocklist", s.handleBlock)
		r.Delete("/blocklist/{id}", s.handleUnblock)
		r.Get("/blocklist/search", s.handleBlockSearch)
		r.Get("/blocklist/reasons", s.handleBlockReasons)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	return r
}

func (s *TrackerServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := s.matchSvc.IngestText(r.Context(), string(body))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *TrackerServer) handleCrawl(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserA string `json:"user_a"`
		UserB string `json:"user_b"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.matchSvc.CrawlHeadToHead(r.Context(), req.UserA, req.UserB)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *TrackerServer) handleHeadToHead(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		s.writeError(w, http.StatusBadRequest, "query params a and b are required")
		return
	}

	h2h := s.matchSvc.HeadToHead(r.Context(), a, b)
	s.writeJSON(w, http.StatusOK, map[string]int{
		"a_rounds": h2h.ARounds,
		"b_rounds": h2h.BRounds,
		"games":    h2h.Games,
	})
}

func (s *TrackerServer) handleStats(w http.ResponseWriter, r *http.Request) {
	totals := s.matchSvc.Stats(r.Context())

	type statsRow struct {
		Wins    int     `json:"wins"`
		Losses  int     `json:"losses"`
		Games   int     `json:"games"`
		WinRate float64 `json:"win_rate"`
	}
	out := make(map[string]statsRow, len(totals))
	for id, st := range totals {
		out[id] = statsRow{Wins: st.Wins, Losses: st.Losses, Games: st.Games, WinRate: st.WinRate()}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *TrackerServer) handleRanking(w http.ResponseWriter, r *http.Request) {
	label, entries := s.rankingSvc.Rank(r.Context())
	if entries == nil {
		entries = []domain.RankingEntry{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"label":   label,
		"entries": entries,
	})
}

func (s *TrackerServer) handleRating(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.ratingSvc.RatingOf(chi.URLParam(r, "id")))
}

func (s *TrackerServer) handleRatingHistory(w http.ResponseWriter, r *http.Request) {
	changes, err := s.ratingSvc.History(r.Context(), chi.URLParam(r, "id"), constants.RatingHistoryLimit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if changes == nil {
		changes = []domain.RatingChange{}
	}
	s.writeJSON(w, http.StatusOK, changes)
}

func (s *TrackerServer) handleRecompute(w http.ResponseWriter, r *http.Request) {
	players, err := s.ratingSvc.RecomputeAll(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"players": players})
}

func (s *TrackerServer) handleRosterList(w http.ResponseWriter, r *http.Request) {
	users, err := s.rosterSvc.Users(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if users == nil {
		users = []domain.RosterEntry{}
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *TrackerServer) handleRosterAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User   string `json:"user"`
		Verify bool   `json:"verify"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := s.rosterSvc.AddUser(r.Context(), req.User, req.Verify)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !added {
		s.writeError(w, http.StatusConflict, "user already on roster")
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"user": req.User})
}

func (s *TrackerServer) handleRosterRemove(w http.ResponseWriter, r *http.Request) {
	removed, err := s.rosterSvc.RemoveUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "user not on roster")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *TrackerServer) handleRosterSearch(w http.ResponseWriter, r *http.Request) {
	entry, err := s.rosterSvc.SearchUser(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		s.writeError(w, http.StatusNotFound, "no matching user")
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *TrackerServer) handleBlocklist(w http.ResponseWriter, r *http.Request) {
	blocked, err := s.rosterSvc.Blocked(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if blocked == nil {
		blocked = []domain.BlockedPlayer{}
	}
	s.writeJSON(w, http.StatusOK, blocked)
}

func (s *TrackerServer) handleBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User   string `json:"user"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := s.rosterSvc.Block(r.Context(), req.User, req.Reason)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !added {
		s.writeError(w, http.StatusConflict, "user already blocklisted")
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"user": req.User})
}

func (s *TrackerServer) handleUnblock(w http.ResponseWriter, r *http.Request) {
	removed, err := s.rosterSvc.Unblock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "user not blocklisted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *TrackerServer) handleBlockSearch(w http.ResponseWriter, r *http.Request) {
	entry, err := s.rosterSvc.SearchBlocked(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		s.writeError(w, http.StatusNotFound, "no matching user")
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *TrackerServer) handleBlockReasons(w http.ResponseWriter, r *http.Request) {
	reasons, err := s.rosterSvc.BlockReasons(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reasons == nil {
		reasons = []string{}
	}
	s.writeJSON(w, http.StatusOK, reasons)
}

func (s *TrackerServer) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.exportSvc.Export(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *TrackerServer) handleImport(w http.ResponseWriter, r *http.Request) {
	var doc domain.ExportDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid export document")
		return
	}

	if err := s.exportSvc.Import(r.Context(), &doc); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"matches": len(doc.Matches)})
}

func (s *TrackerServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *TrackerServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
