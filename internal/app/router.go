package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/helios-ris/helios-ris/internal/audit"
	"github.com/helios-ris/helios-ris/internal/auth"
	"github.com/helios-ris/helios-ris/internal/capability"
	"github.com/helios-ris/helios-ris/internal/labs"
	"github.com/helios-ris/helios-ris/internal/observability"
	"github.com/helios-ris/helios-ris/internal/platform/httpx"
	"github.com/helios-ris/helios-ris/internal/principals"
	"github.com/helios-ris/helios-ris/internal/shared"
	"github.com/helios-ris/helios-ris/internal/studies"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Registry          *capability.Registry
	SessionManager    *shared.SessionManager
	CSRFManager       *shared.CSRFManager
	Guard             capability.Middleware
	AuthHandler       *auth.Handler
	PrincipalsHandler *principals.Handler
	LabsHandler       *labs.Handler
	StudiesHandler    *studies.Handler
	AuditHandler      *audit.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with Helios defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.Guard.RequireRoles())
		r.Get("/capabilities/me", params.PrincipalsHandler.ShowOwnProfile)
		r.Route("/studies", params.StudiesHandler.MountRoutes)
	})

	r.Route("/principals", params.PrincipalsHandler.MountRoutes)
	r.Route("/labs", params.LabsHandler.MountRoutes)
	r.Route("/audit", params.AuditHandler.MountRoutes)

	mountDashboards(r, params)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

// mountDashboards wires every entry of the protected-route table through the
// capability guard and a common landing handler.
func mountDashboards(r chi.Router, params RouterParams) {
	for _, route := range DashboardRoutes() {
		route := route
		r.Group(func(r chi.Router) {
			r.Use(params.Guard.RequireRoles(route.AllowedRoles...))
			r.Get(route.Path, dashboardHandler(params, route.Path))
		})
	}
}

func dashboardHandler(params RouterParams, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := capability.PrincipalFromContext(r.Context())
		if !ok {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		profile, err := params.Registry.ResolveProfile(principal)
		if err != nil {
			params.Logger.Error("resolve dashboard profile", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{
			"dashboard": path,
			"profile":   profile,
		})
	}
}
