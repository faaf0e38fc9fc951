package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers market data ingestion routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/marketdata", func(r chi.Router) {
		r.Get("/symbols", h.HandleGetSymbols)
		r.Get("/snapshot", h.HandleGetSnapshot)
		r.Put("/indices", h.HandlePutIndices)
		r.Put("/sectors", h.HandlePutSectors)

		r.Route("/{symbol}", func(r chi.Router) {
			r.Put("/bars", h.HandlePutBars)
			r.Get("/bars", h.HandleGetBars)
			r.Put("/fundamentals", h.HandlePutFundamentals)
			r.Post("/articles", h.HandleAddArticles)
		})
	})
}
