package markethub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func parseLimit(r *http.Request, def, max int) int {
	limit := def
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= max {
			limit = n
		}
	}
	return limit
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"symbols": s.collector.Symbols()})
}

func (s *Server) handleRunsList(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50, 200)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		writeError(w, 500, fmt.Sprintf("db list runs: %v", err))
		return
	}
	writeJSON(w, 200, runs)
}

func (s *Server) handleRunGet(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimSpace(pathParam(r, "runID"))
	if runID == "" {
		writeError(w, 400, "runID is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		writeError(w, 500, fmt.Sprintf("db get run: %v", err))
		return
	}
	if run == nil {
		writeError(w, 404, "run not found")
		return
	}
	writeJSON(w, 200, run)
}

type collectRequest struct {
	Trigger string `json:"trigger,omitempty"`
}

func (s *Server) handleCollectNow(w http.ResponseWriter, r *http.Request) {
	var req collectRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	trigger := strings.TrimSpace(req.Trigger)
	if trigger == "" {
		trigger = "manual"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	runID, err := s.collector.CollectOnce(ctx, trigger)
	if err != nil {
		writeError(w, 500, fmt.Sprintf("collect failed: %v", err))
		return
	}
	writeJSON(w, 202, map[string]any{"ok": true, "run_id": runID})
}

func (s *Server) handleLatestBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	books, err := s.store.LatestBookSnapshots(ctx)
	if err != nil {
		writeError(w, 500, fmt.Sprintf("db latest books: %v", err))
		return
	}
	writeJSON(w, 200, map[string]any{"books": books})
}

func (s *Server) handleTickerHistory(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(pathParam(r, "symbol"))
	if symbol == "" {
		writeError(w, 400, "symbol is required")
		return
	}
	limit := parseLimit(r, 100, 500)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	snaps, err := s.store.ListTickerSnapshots(ctx, symbol, limit)
	if err != nil {
		writeError(w, 500, fmt.Sprintf("db list tickers: %v", err))
		return
	}
	writeJSON(w, 200, map[string]any{"symbol": symbol, "tickers": snaps})
}

func (s *Server) handleBookHistory(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(pathParam(r, "symbol"))
	if symbol == "" {
		writeError(w, 400, "symbol is required")
		return
	}
	limit := parseLimit(r, 100, 500)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	snaps, err := s.store.ListBookSnapshots(ctx, symbol, limit)
	if err != nil {
		writeError(w, 500, fmt.Sprintf("db list books: %v", err))
		return
	}
	writeJSON(w, 200, map[string]any{"symbol": symbol, "books": snaps})
}
