package capability

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/helios-ris/helios-ris/internal/shared"
)

// Guard decision outcomes reported to metrics.
const (
	OutcomeGranted         = "granted"
	OutcomeDenied          = "denied"
	OutcomeUnauthenticated = "unauthenticated"
)

// PrincipalSource loads the current principal value for an account.
type PrincipalSource interface {
	PrincipalByAccount(ctx context.Context, accountID int64) (Principal, error)
}

// DecisionRecorder counts guard outcomes; wired to Prometheus in production.
type DecisionRecorder interface {
	RecordGuardDecision(outcome string)
}

// Middleware adapts the route guard to HTTP navigation. Authentication state
// is checked before any role matching; failures always resolve to a redirect,
// never to an error page leaking role internals.
type Middleware struct {
	Registry   *Registry
	Principals PrincipalSource
	Logger     *slog.Logger
	Metrics    DecisionRecorder
}

// RequireRoles guards a route subtree with the given allow-list. An empty
// list only requires an authenticated session.
func (m Middleware) RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	allowed := NewRoleSet(roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, ok := m.currentAccountID(r)
			if !ok {
				m.record(OutcomeUnauthenticated)
				http.Redirect(w, r, m.Registry.LoginRoute(), http.StatusSeeOther)
				return
			}
			principal, err := m.Principals.PrincipalByAccount(r.Context(), accountID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("guard load principal", slog.Int64("account_id", accountID), slog.Any("error", err))
				}
				m.record(OutcomeUnauthenticated)
				http.Redirect(w, r, m.Registry.LoginRoute(), http.StatusSeeOther)
				return
			}
			decision := m.Registry.Authorize(principal, allowed)
			if !decision.Granted {
				m.record(OutcomeDenied)
				http.Redirect(w, r, decision.FallbackRoute, http.StatusSeeOther)
				return
			}
			m.record(OutcomeGranted)
			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m Middleware) currentAccountID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("guard parse account id", slog.String("value", raw))
		}
		return 0, false
	}
	return id, true
}

func (m Middleware) record(outcome string) {
	if m.Metrics != nil {
		m.Metrics.RecordGuardDecision(outcome)
	}
}
