package capability

// Decision is the outcome of an authorization check. On denial,
// FallbackRoute carries the redirect target (the principal's own dashboard,
// or the login route when the principal is unusable); internals are never
// surfaced to the principal.
type Decision struct {
	Granted       bool
	FallbackRoute string
}

// Grant is the allow decision.
var Grant = Decision{Granted: true}

// Authorize gates a protected operation. An empty allow-list declares no
// restriction, so any authenticated principal passes. Otherwise the check is
// match-any over granted roles; the allow-list is a set, so the result is
// independent of its enumeration order. Authentication is a precondition
// handled upstream (middleware), not part of role matching.
func (r *Registry) Authorize(p Principal, allowed RoleSet) Decision {
	if len(p.Roles) == 0 {
		// Fail closed: a principal with no roles cannot be granted anything
		// and has no dashboard of its own to fall back to.
		return Decision{FallbackRoute: r.loginRoute}
	}
	if len(allowed) == 0 {
		return Grant
	}
	if p.Roles.Intersects(allowed) {
		return Grant
	}
	primary, err := r.ResolvePrimaryRole(p.Roles)
	if err != nil {
		return Decision{FallbackRoute: r.loginRoute}
	}
	route, ok := r.DashboardRoute(primary)
	if !ok {
		// Load guarantees a dashboard per role; reaching this means the
		// registry is corrupt, so fail closed rather than guess.
		return Decision{FallbackRoute: r.loginRoute}
	}
	return Decision{FallbackRoute: route}
}
