package capability

import "sort"

// Role identifies a named permission category a principal can hold. The set of
// valid roles is closed and fixed at registry load.
type Role string

// Known roles.
const (
	RoleSuperAdmin      Role = "super_admin"
	RoleAdmin           Role = "admin"
	RoleGroup           Role = "group_id"
	RoleAssignor        Role = "assignor"
	RoleRadiologist     Role = "radiologist"
	RoleTypist          Role = "typist"
	RoleVerifier        Role = "verifier"
	RolePhysician       Role = "physician"
	RoleReceptionist    Role = "receptionist"
	RoleBilling         Role = "billing"
	RoleDashboardViewer Role = "dashboard_viewer"
)

// Tier groups roles for reporting and administration screens.
type Tier string

// Role tiers.
const (
	TierAdministrative Tier = "administrative"
	TierClinical       Tier = "clinical"
	TierClerical       Tier = "clerical"
	TierReadOnly       Tier = "readonly"
)

// ColumnID identifies a dashboard data column.
type ColumnID string

// LabID identifies a lab/center record in the external directory.
type LabID string

// RoleSet is an unordered collection of roles.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given role.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Intersects reports whether the two sets share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool {
	for r := range s {
		if other.Contains(r) {
			return true
		}
	}
	return false
}

// Sorted returns the roles in lexicographic order. Set iteration order is
// unspecified, so every resolution path that needs an order goes through here.
func (s RoleSet) Sorted() []Role {
	roles := make([]Role, 0, len(s))
	for r := range s {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Clone returns an independent copy of the set.
func (s RoleSet) Clone() RoleSet {
	if s == nil {
		return nil
	}
	out := make(RoleSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

// ColumnSet is an unordered collection of column ids. A nil ColumnSet means
// "not configured"; a non-nil empty set is a configured empty selection.
type ColumnSet map[ColumnID]struct{}

// NewColumnSet builds a ColumnSet from the given ids.
func NewColumnSet(ids ...ColumnID) ColumnSet {
	set := make(ColumnSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given column id.
func (s ColumnSet) Contains(id ColumnID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the column ids in lexicographic order.
func (s ColumnSet) Sorted() []ColumnID {
	ids := make([]ColumnID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns an independent copy of the set, preserving nil-ness.
func (s ColumnSet) Clone() ColumnSet {
	if s == nil {
		return nil
	}
	out := make(ColumnSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// LabSet is an unordered collection of lab ids.
type LabSet map[LabID]struct{}

// NewLabSet builds a LabSet from the given ids.
func NewLabSet(ids ...LabID) LabSet {
	set := make(LabSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given lab id.
func (s LabSet) Contains(id LabID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the lab ids in lexicographic order.
func (s LabSet) Sorted() []LabID {
	ids := make([]LabID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns an independent copy of the set.
func (s LabSet) Clone() LabSet {
	if s == nil {
		return nil
	}
	out := make(LabSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// LabAccessMode discriminates the lab access policy union.
type LabAccessMode string

// Lab access modes. Selected with an empty lab set normalizes to None at
// resolution time.
const (
	LabAccessAll      LabAccessMode = "all"
	LabAccessSelected LabAccessMode = "selected"
	LabAccessNone     LabAccessMode = "none"
)

// LabAccessPolicy declares which lab-scoped records a principal may reach.
type LabAccessPolicy struct {
	Mode LabAccessMode
	Labs LabSet
}

// Clone returns an independent copy of the policy.
func (p LabAccessPolicy) Clone() LabAccessPolicy {
	return LabAccessPolicy{Mode: p.Mode, Labs: p.Labs.Clone()}
}

// Principal is an authenticated account plus its role grants and overrides.
// Values are immutable once handed to a resolver; edits replace the whole
// value and bump Version so cached profiles can be invalidated.
type Principal struct {
	ID             int64
	Version        int64
	Roles          RoleSet
	ColumnOverride ColumnSet // nil when the principal has not customized columns
	LabPolicy      LabAccessPolicy
	LinkedLabs     LabSet
}

// Clone returns a deep copy suitable for copy-on-write updates.
func (p Principal) Clone() Principal {
	return Principal{
		ID:             p.ID,
		Version:        p.Version,
		Roles:          p.Roles.Clone(),
		ColumnOverride: p.ColumnOverride.Clone(),
		LabPolicy:      p.LabPolicy.Clone(),
		LinkedLabs:     p.LinkedLabs.Clone(),
	}
}

// LabPredicate reports whether a lab id is within a resolved scope.
type LabPredicate func(LabID) bool
