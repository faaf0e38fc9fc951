// Package handlers provides HTTP handlers for risk assessment operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/risk"
)

// Handler handles risk HTTP requests
type Handler struct {
	engine *risk.Engine
	log    zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(engine *risk.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "risk").Logger(),
	}
}

// AssessRequest is the body of POST /api/risk/assess. TradingSignal is
// used only when the bar series cannot be measured.
type AssessRequest struct {
	Symbol        string                `json:"symbol"`
	Bars          []domain.PriceBar     `json:"bars"`
	TradingSignal *domain.TradingSignal `json:"trading_signal,omitempty"`
}

// PortfolioRequest is the body of POST /api/risk/portfolio
type PortfolioRequest struct {
	Metrics []*domain.RiskMetrics `json:"metrics"`
}

// HandleAssess handles POST /api/risk/assess
func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	bars, err := domain.SortBars(req.Bars)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics, err := h.engine.Assess(req.Symbol, bars, req.TradingSignal)
	if err != nil {
		h.writeError(w, err, "Failed to assess risk")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": metrics,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandlePortfolio handles POST /api/risk/portfolio
func (h *Handler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pr, err := h.engine.Portfolio(req.Metrics)
	if err != nil {
		h.writeError(w, err, "Failed to assess portfolio risk")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"portfolio_risk":       pr,
			"risk_management_plan": risk.ManagementPlan(pr),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, domain.ErrInsufficientData) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.log.Error().Err(err).Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
