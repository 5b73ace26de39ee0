package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/helios-ris/helios-ris/internal/capability"
	"github.com/helios-ris/helios-ris/internal/platform/httpx"
)

// Handler serves the audit timeline to administrators.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   capability.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard capability.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers audit timeline routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(capability.RoleSuperAdmin, capability.RoleAdmin))
		r.Get("/", h.timeline)
	})
}

type entryResponse struct {
	ID       int64          `json:"id"`
	ActorID  int64          `json:"actor_id"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"at"`
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	filters, ok := parseFilters(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit timeline", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	entries := make([]entryResponse, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, entryResponse{
			ID:       entry.ID,
			ActorID:  entry.ActorID,
			Action:   entry.Action,
			Entity:   entry.Entity,
			EntityID: entry.EntityID,
			Meta:     entry.Meta,
			At:       entry.At,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"paging": map[string]int{
			"page":        result.Paging.Page,
			"per_page":    result.Paging.PerPage,
			"total":       result.Paging.Total,
			"total_pages": result.Paging.TotalPages,
		},
	})
}

func parseFilters(r *http.Request) (Filters, bool) {
	q := r.URL.Query()
	f := Filters{
		Entity: q.Get("entity"),
		Action: q.Get("action"),
	}
	var ok bool
	if f.Page, ok = parseIntParam(q.Get("page")); !ok {
		return Filters{}, false
	}
	if f.PageSize, ok = parseIntParam(q.Get("page_size")); !ok {
		return Filters{}, false
	}
	if raw := q.Get("actor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return Filters{}, false
		}
		f.ActorID = id
	}
	if raw := q.Get("from"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Filters{}, false
		}
		f.From = at
	}
	if raw := q.Get("to"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Filters{}, false
		}
		f.To = at
	}
	return f, true
}

func parseIntParam(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
