package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document catalog and export routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", h.ListDocuments)

		r.Route("/{document_id}", func(r chi.Router) {
			r.Get("/", h.GetDocument)
			r.Delete("/", h.DeleteDocument)
			r.Get("/export", h.ExportDocument)
			r.Get("/export/archive", h.ExportArchive)
		})
	})
}
