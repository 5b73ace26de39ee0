package principals

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/helios-ris/helios-ris/internal/capability"
	"github.com/helios-ris/helios-ris/internal/platform/httpx"
	"github.com/helios-ris/helios-ris/internal/shared"
)

// Handler serves principal administration and the self-service profile.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	guard    capability.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard capability.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validate: validator.New()}
}

// MountRoutes registers principal administration routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(capability.RoleSuperAdmin, capability.RoleAdmin))
		r.Get("/", h.listPrincipals)
		r.Get("/{accountID}", h.showPrincipal)
		r.Put("/{accountID}/roles", h.updateRoles)
		r.Put("/{accountID}/columns", h.updateColumns)
		r.Put("/{accountID}/lab-policy", h.updateLabPolicy)
	})
}

type recordResponse struct {
	AccountID      int64    `json:"account_id"`
	Version        int64    `json:"version"`
	Roles          []string `json:"roles"`
	ColumnOverride []string `json:"column_override,omitempty"`
	LabAccessMode  string   `json:"lab_access_mode"`
	LabIDs         []string `json:"lab_ids,omitempty"`
	LinkedLabIDs   []string `json:"linked_lab_ids,omitempty"`
}

func toResponse(rec Record) recordResponse {
	return recordResponse{
		AccountID:      rec.AccountID,
		Version:        rec.Version,
		Roles:          rec.Roles,
		ColumnOverride: rec.ColumnOverride,
		LabAccessMode:  rec.LabAccessMode,
		LabIDs:         rec.LabIDs,
		LinkedLabIDs:   rec.LinkedLabIDs,
	}
}

// ShowOwnProfile returns the resolved capability profile for the current
// principal. Mounted behind the authenticated group in the router.
func (h *Handler) ShowOwnProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := capability.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	profile, err := h.service.Profile(r.Context(), principal.ID)
	if err != nil {
		h.respondErr(w, "resolve own profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (h *Handler) listPrincipals(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		h.respondErr(w, "list principals", err)
		return
	}
	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toResponse(rec))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"principals": out})
}

func (h *Handler) showPrincipal(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	profile, err := h.service.Profile(r.Context(), accountID)
	if err != nil {
		h.respondErr(w, "show principal", err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

type updateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,required"`
}

func (h *Handler) updateRoles(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	var req updateRolesRequest
	if !h.decode(w, r, &req) {
		return
	}
	rec, err := h.service.UpdateRoles(r.Context(), h.actorID(r), accountID, req.Roles)
	if err != nil {
		h.respondErr(w, "update roles", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(rec))
}

type updateColumnsRequest struct {
	Columns []string `json:"columns"`
	Clear   bool     `json:"clear"`
}

func (h *Handler) updateColumns(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	var req updateColumnsRequest
	if !h.decode(w, r, &req) {
		return
	}
	rec, err := h.service.UpdateColumnOverride(r.Context(), h.actorID(r), accountID, req.Columns, req.Clear)
	if err != nil {
		h.respondErr(w, "update columns", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(rec))
}

type updateLabPolicyRequest struct {
	Mode         string   `json:"mode" validate:"required,oneof=all selected none"`
	LabIDs       []string `json:"lab_ids"`
	LinkedLabIDs []string `json:"linked_lab_ids"`
}

func (h *Handler) updateLabPolicy(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	var req updateLabPolicyRequest
	if !h.decode(w, r, &req) {
		return
	}
	rec, err := h.service.UpdateLabPolicy(r.Context(), h.actorID(r), accountID, req.Mode, req.LabIDs, req.LinkedLabIDs)
	if err != nil {
		h.respondErr(w, "update lab policy", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "accountID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return 0, false
	}
	return id, true
}

func (h *Handler) actorID(r *http.Request) int64 {
	if principal, ok := capability.PrincipalFromContext(r.Context()); ok {
		return principal.ID
	}
	return 0
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return false
	}
	return true
}

func (h *Handler) respondErr(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, shared.ErrVersionConflict):
		httpx.RespondError(w, httpx.ErrConflict)
	case errors.Is(err, capability.ErrEmptyRoleSet), errors.Is(err, capability.ErrUnknownRole),
		errors.Is(err, ErrUnknownColumn), errors.Is(err, ErrUnknownLabAccessMode):
		httpx.RespondError(w, httpx.ErrValidation)
	default:
		h.logger.Error(msg, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
