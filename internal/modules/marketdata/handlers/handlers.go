// Package handlers provides the ingestion endpoints for pre-fetched market
// data.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/marketdata"
)

// Handler handles market data HTTP requests
type Handler struct {
	repo *marketdata.Repository
	log  zerolog.Logger
}

// NewHandler creates a new market data handler
func NewHandler(repo *marketdata.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "marketdata").Logger(),
	}
}

// BarsRequest is the body of PUT /api/marketdata/{symbol}/bars
type BarsRequest struct {
	Bars []domain.PriceBar `json:"bars"`
}

// ArticlesRequest is the body of POST /api/marketdata/{symbol}/articles
type ArticlesRequest struct {
	Articles []domain.Article `json:"articles"`
}

// IndicesRequest is the body of PUT /api/marketdata/indices
type IndicesRequest struct {
	Indices []domain.MarketIndex `json:"indices"`
}

// SectorsRequest is the body of PUT /api/marketdata/sectors
type SectorsRequest struct {
	Sectors []domain.SectorPerformance `json:"sectors"`
}

func symbolParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
}

// HandlePutBars handles PUT /api/marketdata/{symbol}/bars
func (h *Handler) HandlePutBars(w http.ResponseWriter, r *http.Request) {
	symbol := symbolParam(r)

	var req BarsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.ReplaceBars(r.Context(), symbol, req.Bars); err != nil {
		if errors.Is(err, marketdata.ErrInvalidBar) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to store bars")
		http.Error(w, "Failed to store bars", http.StatusInternalServerError)
		return
	}

	h.log.Info().Str("symbol", symbol).Int("bars", len(req.Bars)).Msg("Stored price bars")
	h.writeStored(w, map[string]interface{}{"symbol": symbol, "bars": len(req.Bars)})
}

// HandleGetBars handles GET /api/marketdata/{symbol}/bars. The optional
// since query parameter is a YYYY-MM-DD date.
func (h *Handler) HandleGetBars(w http.ResponseWriter, r *http.Request) {
	symbol := symbolParam(r)

	var since time.Time
	if s := r.URL.Query().Get("since"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			http.Error(w, "Invalid since date", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	bars, err := h.repo.GetBars(r.Context(), symbol, since)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to get bars")
		http.Error(w, "Failed to get bars", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbol": symbol,
			"bars":   bars,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"count":     len(bars),
		},
	})
}

// HandlePutFundamentals handles PUT /api/marketdata/{symbol}/fundamentals
func (h *Handler) HandlePutFundamentals(w http.ResponseWriter, r *http.Request) {
	symbol := symbolParam(r)

	var metrics domain.FundamentalMetrics
	if err := json.NewDecoder(r.Body).Decode(&metrics); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.SaveFundamentals(r.Context(), symbol, metrics); err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to store fundamentals")
		http.Error(w, "Failed to store fundamentals", http.StatusInternalServerError)
		return
	}

	h.writeStored(w, map[string]interface{}{"symbol": symbol})
}

// HandleAddArticles handles POST /api/marketdata/{symbol}/articles
func (h *Handler) HandleAddArticles(w http.ResponseWriter, r *http.Request) {
	symbol := symbolParam(r)

	var req ArticlesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.AddArticles(r.Context(), symbol, req.Articles); err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to store articles")
		http.Error(w, "Failed to store articles", http.StatusInternalServerError)
		return
	}

	h.writeStored(w, map[string]interface{}{"symbol": symbol, "articles": len(req.Articles)})
}

// HandlePutIndices handles PUT /api/marketdata/indices
func (h *Handler) HandlePutIndices(w http.ResponseWriter, r *http.Request) {
	var req IndicesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.ReplaceIndices(r.Context(), req.Indices); err != nil {
		h.log.Error().Err(err).Msg("Failed to store indices")
		http.Error(w, "Failed to store indices", http.StatusInternalServerError)
		return
	}

	h.writeStored(w, map[string]interface{}{"indices": len(req.Indices)})
}

// HandlePutSectors handles PUT /api/marketdata/sectors
func (h *Handler) HandlePutSectors(w http.ResponseWriter, r *http.Request) {
	var req SectorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.ReplaceSectors(r.Context(), req.Sectors); err != nil {
		h.log.Error().Err(err).Msg("Failed to store sectors")
		http.Error(w, "Failed to store sectors", http.StatusInternalServerError)
		return
	}

	h.writeStored(w, map[string]interface{}{"sectors": len(req.Sectors)})
}

// HandleGetSnapshot handles GET /api/marketdata/snapshot
func (h *Handler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.repo.Snapshot(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get market snapshot")
		http.Error(w, "Failed to get market snapshot", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": snapshot,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetSymbols handles GET /api/marketdata/symbols
func (h *Handler) HandleGetSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.repo.Symbols(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list symbols")
		http.Error(w, "Failed to list symbols", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": symbols,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"count":     len(symbols),
		},
	})
}

func (h *Handler) writeStored(w http.ResponseWriter, data map[string]interface{}) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
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
