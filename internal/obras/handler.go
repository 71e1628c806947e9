package obras

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ensayelab/ensayelab/internal/platform/httpx"
)

type Handler struct {
	logger *slog.Logger
	claves *ClaveGenerator
}

func NewHandler(logger *slog.Logger, claves *ClaveGenerator) *Handler {
	return &Handler{logger: logger, claves: claves}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/generate-clave", h.GenerateClave)
}

func (h *Handler) GenerateClave(w http.ResponseWriter, r *http.Request) {
	clave, err := h.claves.Next(r.Context())
	if err != nil {
		h.logger.Error("generate clave failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "clave sequence unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"clave": clave})
}
