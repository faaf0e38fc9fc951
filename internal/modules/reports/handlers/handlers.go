// Package handlers serves stored analysis reports.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/reports"
)

// Handler handles report HTTP requests
type Handler struct {
	repo *reports.Repository
	log  zerolog.Logger
}

// NewHandler creates a new reports handler
func NewHandler(repo *reports.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "reports").Logger(),
	}
}

// HandleList handles GET /api/reports
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	metas, err := h.repo.List(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list reports")
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": metas,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"count":     len(metas),
		},
	})
}

// HandleGet handles GET /api/reports/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, id, "Failed to get report")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": report,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleDelete handles DELETE /api/reports/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, id, "Failed to delete report")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, id, msg string) {
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}
	h.log.Error().Err(err).Str("id", id).Msg(msg)
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
