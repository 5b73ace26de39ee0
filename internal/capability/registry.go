package capability

import (
	"sort"
	"strings"
)

// PresetKeyDelimiter joins the sorted roles of a combination preset key.
const PresetKeyDelimiter = "+"

// RankEntry assigns a hierarchy rank and tier to a role. Higher ranks win
// primary-role selection; equal ranks are broken by the TieBreak table.
type RankEntry struct {
	Role Role
	Rank int
	Tier Tier
}

// ColumnDefinition describes one dashboard data column and who may see it.
type ColumnDefinition struct {
	ID              ColumnID
	Label           string
	Category        string
	ApplicableRoles RoleSet
	AlwaysVisible   bool
	DefaultFor      RoleSet
}

// ComboPreset is a curated column list for a specific combination of roles.
type ComboPreset struct {
	Roles   []Role
	Columns []ColumnID
}

// Tables is the raw, declarative registry input supplied by the
// configuration loader at startup.
type Tables struct {
	Ranks      []RankEntry
	TieBreak   []Role // fixed secondary ordering, earlier entries win rank ties
	Columns    []ColumnDefinition
	Presets    []ComboPreset
	Dashboards map[Role]string
	LoginRoute string
}

// Registry is the validated, immutable capability catalog. It is loaded once
// at startup and safe for concurrent reads.
type Registry struct {
	ranks      map[Role]int
	tiers      map[Role]Tier
	tieBreak   map[Role]int
	columns    map[ColumnID]ColumnDefinition
	always     ColumnSet
	presets    map[string]ColumnSet
	dashboards map[Role]string
	loginRoute string
}

// Load validates the tables and builds a Registry. Any inconsistency is a
// ConfigurationError and must abort startup.
func Load(tables Tables) (*Registry, error) {
	if len(tables.Ranks) == 0 {
		return nil, configErr("hierarchy", "no roles defined")
	}
	if tables.LoginRoute == "" {
		return nil, configErr("routes", "login route not set")
	}

	reg := &Registry{
		ranks:      make(map[Role]int, len(tables.Ranks)),
		tiers:      make(map[Role]Tier, len(tables.Ranks)),
		tieBreak:   make(map[Role]int, len(tables.TieBreak)),
		columns:    make(map[ColumnID]ColumnDefinition, len(tables.Columns)),
		always:     make(ColumnSet),
		presets:    make(map[string]ColumnSet, len(tables.Presets)),
		dashboards: make(map[Role]string, len(tables.Dashboards)),
		loginRoute: tables.LoginRoute,
	}

	for _, entry := range tables.Ranks {
		if entry.Role == "" {
			return nil, configErr("hierarchy", "empty role key")
		}
		if _, dup := reg.ranks[entry.Role]; dup {
			return nil, configErr("hierarchy", "duplicate role %q", entry.Role)
		}
		if entry.Rank < 0 {
			return nil, configErr("hierarchy", "negative rank for role %q", entry.Role)
		}
		reg.ranks[entry.Role] = entry.Rank
		reg.tiers[entry.Role] = entry.Tier
	}

	// The secondary ordering must cover every role exactly once so that rank
	// ties can never be ambiguous.
	for pos, role := range tables.TieBreak {
		if _, known := reg.ranks[role]; !known {
			return nil, configErr("tiebreak", "unknown role %q", role)
		}
		if _, dup := reg.tieBreak[role]; dup {
			return nil, configErr("tiebreak", "duplicate role %q", role)
		}
		reg.tieBreak[role] = pos
	}
	if len(reg.tieBreak) != len(reg.ranks) {
		return nil, configErr("tiebreak", "ordering covers %d of %d roles", len(reg.tieBreak), len(reg.ranks))
	}

	for _, col := range tables.Columns {
		if col.ID == "" {
			return nil, configErr("columns", "empty column id")
		}
		if _, dup := reg.columns[col.ID]; dup {
			return nil, configErr("columns", "duplicate column %q", col.ID)
		}
		if col.AlwaysVisible && len(col.ApplicableRoles) > 0 {
			return nil, configErr("columns", "always-visible column %q carries role restrictions", col.ID)
		}
		for role := range col.ApplicableRoles {
			if _, known := reg.ranks[role]; !known {
				return nil, configErr("columns", "column %q references unknown role %q", col.ID, role)
			}
		}
		for role := range col.DefaultFor {
			if _, known := reg.ranks[role]; !known {
				return nil, configErr("columns", "column %q defaults to unknown role %q", col.ID, role)
			}
		}
		reg.columns[col.ID] = col
		if col.AlwaysVisible {
			reg.always[col.ID] = struct{}{}
		}
	}

	for _, preset := range tables.Presets {
		if len(preset.Roles) < 2 {
			return nil, configErr("presets", "preset needs at least two roles, got %v", preset.Roles)
		}
		for _, role := range preset.Roles {
			if _, known := reg.ranks[role]; !known {
				return nil, configErr("presets", "preset references unknown role %q", role)
			}
		}
		key := PresetKey(preset.Roles...)
		if _, dup := reg.presets[key]; dup {
			return nil, configErr("presets", "duplicate preset %q", key)
		}
		cols := make(ColumnSet, len(preset.Columns))
		for _, id := range preset.Columns {
			if _, known := reg.columns[id]; !known {
				return nil, configErr("presets", "preset %q references unknown column %q", key, id)
			}
			cols[id] = struct{}{}
		}
		reg.presets[key] = cols
	}

	for role, route := range tables.Dashboards {
		if _, known := reg.ranks[role]; !known {
			return nil, configErr("routes", "dashboard registered for unknown role %q", role)
		}
		if route == "" {
			return nil, configErr("routes", "empty dashboard route for role %q", role)
		}
		reg.dashboards[role] = route
	}
	// Every role needs a dashboard so denial fallbacks always resolve.
	for role := range reg.ranks {
		if _, ok := reg.dashboards[role]; !ok {
			return nil, configErr("routes", "no dashboard route for role %q", role)
		}
	}

	return reg, nil
}

// PresetKey returns the canonical key for a role combination: roles sorted
// lexicographically and joined by the preset delimiter.
func PresetKey(roles ...Role) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return strings.Join(names, PresetKeyDelimiter)
}

// KnownRole reports whether the role exists in the loaded hierarchy.
func (r *Registry) KnownRole(role Role) bool {
	_, ok := r.ranks[role]
	return ok
}

// Rank returns the hierarchy rank of a known role.
func (r *Registry) Rank(role Role) (int, bool) {
	rank, ok := r.ranks[role]
	return rank, ok
}

// TierOf returns the tier grouping of a known role.
func (r *Registry) TierOf(role Role) (Tier, bool) {
	tier, ok := r.tiers[role]
	return tier, ok
}

// Roles returns every known role sorted by descending rank, ties broken by
// the secondary ordering.
func (r *Registry) Roles() []Role {
	roles := make([]Role, 0, len(r.ranks))
	for role := range r.ranks {
		roles = append(roles, role)
	}
	r.sortByPrecedence(roles)
	return roles
}

// Column returns the definition of a column id.
func (r *Registry) Column(id ColumnID) (ColumnDefinition, bool) {
	col, ok := r.columns[id]
	return col, ok
}

// Columns returns every column definition sorted by id.
func (r *Registry) Columns() []ColumnDefinition {
	ids := make([]string, 0, len(r.columns))
	for id := range r.columns {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	cols := make([]ColumnDefinition, 0, len(ids))
	for _, id := range ids {
		cols = append(cols, r.columns[ColumnID(id)])
	}
	return cols
}

// AlwaysVisible returns the column ids visible to every principal.
func (r *Registry) AlwaysVisible() ColumnSet {
	return r.always.Clone()
}

// DashboardRoute returns the landing route registered for a role.
func (r *Registry) DashboardRoute(role Role) (string, bool) {
	route, ok := r.dashboards[role]
	return route, ok
}

// LoginRoute returns the route unauthenticated requests are redirected to.
func (r *Registry) LoginRoute() string {
	return r.loginRoute
}

func (r *Registry) sortByPrecedence(roles []Role) {
	sort.Slice(roles, func(i, j int) bool {
		ri, rj := r.ranks[roles[i]], r.ranks[roles[j]]
		if ri != rj {
			return ri > rj
		}
		return r.tieBreak[roles[i]] < r.tieBreak[roles[j]]
	})
}
