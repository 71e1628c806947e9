package catalog

import (
	"github.com/go-chi/chi/v5"
)

// MountAreaRoutes registers /api/areas routes.
func (h *Handler) MountAreaRoutes(r chi.Router) {
	r.Get("/", h.ListAreas)
	r.Post("/", h.CreateArea)
	r.Get("/tree", h.Tree)
	r.Get("/{code}/subareas", h.Subareas)
	r.Get("/{id}", h.GetArea)
	r.Put("/{id}", h.UpdateArea)
	r.Delete("/{id}", h.DeleteArea)
}

// MountSubareaRoutes registers /api/subareas routes.
func (h *Handler) MountSubareaRoutes(r chi.Router) {
	r.Get("/{id}/conceptos", h.SubareaConcepts)
}

// MountConceptRoutes registers /api/conceptos routes.
func (h *Handler) MountConceptRoutes(r chi.Router) {
	r.Get("/", h.ListConcepts)
	r.Post("/", h.CreateConcept)
	r.Get("/{id}", h.GetConcept)
	r.Put("/{id}", h.UpdateConcept)
	r.Delete("/{id}", h.DeleteConcept)
}
