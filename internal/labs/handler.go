package labs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/helios-ris/helios-ris/internal/capability"
	"github.com/helios-ris/helios-ris/internal/platform/httpx"
)

// Handler serves the lab directory.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   capability.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard capability.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers lab directory routes. The listing is used by the
// lab-access configuration screens, so it is restricted to administrative
// roles.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(capability.RoleSuperAdmin, capability.RoleAdmin, capability.RoleGroup))
		r.Get("/", h.listLabs)
	})
}

type labResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	IsActive bool   `json:"is_active"`
}

func (h *Handler) listLabs(w http.ResponseWriter, r *http.Request) {
	labs, err := h.service.ListLabs(r.Context())
	if err != nil {
		h.logger.Error("list labs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]labResponse, 0, len(labs))
	for _, lab := range labs {
		out = append(out, labResponse{ID: lab.ID, Name: lab.Name, City: lab.City, IsActive: lab.IsActive})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"labs": out})
}
