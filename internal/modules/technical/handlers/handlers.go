// Package handlers exposes the indicator engine over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/technical"
)

// Handler handles indicator HTTP requests
type Handler struct {
	engine *technical.Engine
	log    zerolog.Logger
}

// NewHandler creates a new indicator handler
func NewHandler(engine *technical.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "indicators").Logger(),
	}
}

// IndicatorsRequest is the body of POST /api/indicators
type IndicatorsRequest struct {
	Symbol string            `json:"symbol"`
	Bars   []domain.PriceBar `json:"bars"`
}

// HandleComputeIndicators handles POST /api/indicators
func (h *Handler) HandleComputeIndicators(w http.ResponseWriter, r *http.Request) {
	var req IndicatorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	bars, err := domain.SortBars(req.Bars)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	set, signal, err := h.engine.Analyze(req.Symbol, bars)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) || errors.Is(err, domain.ErrMissingField) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Failed to compute indicators")
		http.Error(w, "Failed to compute indicators", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"technical_analysis": set,
			"trading_signals":    signal,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
