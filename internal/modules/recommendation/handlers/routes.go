package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers recommendation and allocation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/recommendations/synthesize", h.HandleSynthesize)
	r.Post("/portfolio/allocation", h.HandleAllocation)
}
