// Package handlers exposes the fundamental scorer over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/fundamentals"
)

// Handler handles fundamental scoring HTTP requests
type Handler struct {
	scorer *fundamentals.Scorer
	log    zerolog.Logger
}

// NewHandler creates a new fundamentals handler
func NewHandler(scorer *fundamentals.Scorer, log zerolog.Logger) *Handler {
	return &Handler{
		scorer: scorer,
		log:    log.With().Str("handler", "fundamentals").Logger(),
	}
}

// ScoreRequest is the body of POST /api/fundamentals/score
type ScoreRequest struct {
	Symbol  string                     `json:"symbol"`
	Metrics *domain.FundamentalMetrics `json:"metrics"`
}

// HandleScore handles POST /api/fundamentals/score
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	score, err := h.scorer.Score(req.Symbol, req.Metrics)
	if err != nil {
		if errors.Is(err, domain.ErrMissingField) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Failed to score fundamentals")
		http.Error(w, "Failed to score fundamentals", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": score,
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
