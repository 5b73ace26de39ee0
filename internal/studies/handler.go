package studies

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/helios-ris/helios-ris/internal/capability"
	"github.com/helios-ris/helios-ris/internal/platform/httpx"
)

// Handler serves the study worklist.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers worklist routes. The router mounts this behind the
// authenticated guard group; row and column scoping happens in the service.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listStudies)
}

func (h *Handler) listStudies(w http.ResponseWriter, r *http.Request) {
	principal, ok := capability.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	worklist, err := h.service.List(r.Context(), principal)
	if err != nil {
		h.logger.Error("list studies", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, worklist)
}
