// Package handlers provides HTTP handlers for analysis runs.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/analysis"
)

// Analyzer runs analysis requests
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*domain.AnalysisReport, error)
	QuickAnalysis(ctx context.Context, symbol string) (*domain.QuickAnalysis, error)
}

// ReportSaver persists finished reports
type ReportSaver interface {
	Save(ctx context.Context, report *domain.AnalysisReport) (string, error)
}

// Handler handles analysis HTTP requests
type Handler struct {
	analyzer Analyzer
	reports  ReportSaver
	log      zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(analyzer Analyzer, reports ReportSaver, log zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		reports:  reports,
		log:      log.With().Str("handler", "analysis").Logger(),
	}
}

// AnalyzeRequest is the body of POST /api/analysis
type AnalyzeRequest struct {
	Symbols []string `json:"symbols"`
	Period  string   `json:"period"`
	Persist bool     `json:"persist"`
}

// HandleAnalyze handles POST /api/analysis
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), analysis.Request{Symbols: req.Symbols, Period: req.Period})
	if err != nil {
		h.writeError(w, err, "Analysis failed")
		return
	}

	if req.Persist {
		if _, err := h.reports.Save(r.Context(), report); err != nil {
			h.log.Error().Err(err).Msg("Failed to persist report")
			http.Error(w, "Failed to persist report", http.StatusInternalServerError)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": report,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"persisted": req.Persist,
		},
	})
}

// HandleQuickAnalysis handles GET /api/analysis/quick/{symbol}
func (h *Handler) HandleQuickAnalysis(w http.ResponseWriter, r *http.Request) {
	quick, err := h.analyzer.QuickAnalysis(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, err, "Quick analysis failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": quick,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrEmptySymbolSet), errors.Is(err, domain.ErrInvalidPeriod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Error().Err(err).Msg(msg)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
