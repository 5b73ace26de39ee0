package app

import "github.com/helios-ris/helios-ris/internal/capability"

// ProtectedRoute pairs a navigation target with its allow-list. The table is
// data consumed verbatim by the capability guard; an empty allow-list means
// any authenticated principal may enter.
type ProtectedRoute struct {
	Path         string
	AllowedRoles []capability.Role
}

// DashboardRoutes declares the per-role landing dashboards. Paths must match
// the dashboard table the capability registry is loaded with, since guard
// denials redirect to the principal's primary-role dashboard.
func DashboardRoutes() []ProtectedRoute {
	return []ProtectedRoute{
		{Path: "/dashboard/admin", AllowedRoles: []capability.Role{capability.RoleAdmin, capability.RoleSuperAdmin}},
		{Path: "/dashboard/group", AllowedRoles: []capability.Role{capability.RoleGroup, capability.RoleAdmin, capability.RoleSuperAdmin}},
		{Path: "/dashboard/assignment", AllowedRoles: []capability.Role{capability.RoleAssignor}},
		{Path: "/dashboard/reading", AllowedRoles: []capability.Role{capability.RoleRadiologist}},
		{Path: "/dashboard/transcription", AllowedRoles: []capability.Role{capability.RoleTypist}},
		{Path: "/dashboard/verification", AllowedRoles: []capability.Role{capability.RoleVerifier}},
		{Path: "/dashboard/referrals", AllowedRoles: []capability.Role{capability.RolePhysician}},
		{Path: "/dashboard/frontdesk", AllowedRoles: []capability.Role{capability.RoleReceptionist}},
		{Path: "/dashboard/billing", AllowedRoles: []capability.Role{capability.RoleBilling}},
		// The overview board is readable by any authenticated principal; it
		// is also the landing page for dashboard_viewer.
		{Path: "/dashboard/overview", AllowedRoles: nil},
	}
}
