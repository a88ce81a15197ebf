package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lawnchairsociety/relictower/internal/database"
	"github.com/lawnchairsociety/relictower/internal/logger"
)

const maxRunsPerPage = 100

// RunsResponse is the body of GET /runs.
type RunsResponse struct {
	Total     int             `json:"total"`
	BestFloor int             `json:"best_floor"`
	Runs      []*database.Run `json:"runs"`
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "run history is disabled", http.StatusNotFound)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive number", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRunsPerPage)
	}

	runs, err := s.db.ListRecentRuns(limit)
	if err != nil {
		s.historyError(w, err)
		return
	}
	total, err := s.db.CountRuns()
	if err != nil {
		s.historyError(w, err)
		return
	}
	best, err := s.db.BestFloor()
	if err != nil {
		s.historyError(w, err)
		return
	}

	writeJSON(w, RunsResponse{Total: total, BestFloor: best, Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "run history is disabled", http.StatusNotFound)
		return
	}

	run, err := s.db.GetRun(r.PathValue("id"))
	if errors.Is(err, database.ErrRunNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.historyError(w, err)
		return
	}
	writeJSON(w, run)
}

func (s *Server) historyError(w http.ResponseWriter, err error) {
	logger.Error("Run history query failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Response write failed", "error", err)
	}
}
