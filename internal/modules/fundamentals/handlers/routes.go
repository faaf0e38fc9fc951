package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers fundamentals routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/fundamentals", func(r chi.Router) {
		r.Post("/score", h.HandleScore)
	})
}
