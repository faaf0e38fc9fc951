package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analysis", func(r chi.Router) {
		r.Post("/", h.HandleAnalyze)
		r.Get("/quick/{symbol}", h.HandleQuickAnalysis)
	})
}
