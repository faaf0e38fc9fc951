// Package handlers exposes recommendation synthesis and portfolio
// allocation over HTTP.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/recommendation"
)

// Handler handles recommendation HTTP requests
type Handler struct {
	synthesizer *recommendation.Synthesizer
	log         zerolog.Logger
}

// NewHandler creates a new recommendation handler
func NewHandler(synthesizer *recommendation.Synthesizer, log zerolog.Logger) *Handler {
	return &Handler{
		synthesizer: synthesizer,
		log:         log.With().Str("handler", "recommendations").Logger(),
	}
}

// SynthesizeRequest is the body of POST /api/recommendations/synthesize.
// Absent inputs produce an INSUFFICIENT_DATA recommendation, not an error.
type SynthesizeRequest struct {
	Symbol           string                   `json:"symbol"`
	TradingSignal    *domain.TradingSignal    `json:"trading_signal"`
	FundamentalScore *domain.FundamentalScore `json:"fundamental_analysis"`
	RiskMetrics      *domain.RiskMetrics      `json:"risk_metrics"`
	CurrentPrice     *float64                 `json:"current_price"`
}

// AllocationRequest is the body of POST /api/portfolio/allocation
type AllocationRequest struct {
	Recommendations []*domain.Recommendation `json:"recommendations"`
}

// HandleSynthesize handles POST /api/recommendations/synthesize
func (h *Handler) HandleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	rec := h.synthesizer.Synthesize(symbol, req.TradingSignal, req.FundamentalScore, req.RiskMetrics, req.CurrentPrice)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": rec,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleAllocation handles POST /api/portfolio/allocation. Later entries
// for the same symbol replace earlier ones.
func (h *Handler) HandleAllocation(w http.ResponseWriter, r *http.Request) {
	var req AllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	recs := make(map[string]*domain.Recommendation, len(req.Recommendations))
	for _, rec := range req.Recommendations {
		if rec == nil || rec.Symbol == "" {
			continue
		}
		recs[rec.Symbol] = rec
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"portfolio_allocation": recommendation.BuildPortfolio(recs),
			"overall_strategy":     recommendation.OverallStrategy(recs),
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
