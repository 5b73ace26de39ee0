package capability

import "fmt"

// ResolvePrimaryRole picks the single role that determines a principal's
// landing dashboard. Roles are ordered by descending hierarchy rank; rank
// ties fall back to the fixed secondary ordering loaded with the registry,
// never to set iteration order. The result is deterministic for any
// enumeration of the same set.
func (r *Registry) ResolvePrimaryRole(granted RoleSet) (Role, error) {
	if len(granted) == 0 {
		return "", ErrEmptyRoleSet
	}
	for role := range granted {
		if !r.KnownRole(role) {
			return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
		}
	}
	roles := granted.Sorted()
	if len(roles) == 1 {
		return roles[0], nil
	}
	r.sortByPrecedence(roles)
	return roles[0], nil
}

// ResolveVisibleColumns computes the effective column set for a principal.
// Priority: explicit override, then a combination preset for multi-role
// principals, then the union of per-role defaults restricted to applicable
// columns. Always-visible columns are added on every path. A nil override
// means "not customized"; a non-nil empty override is an explicit minimal
// selection. The result is unordered; display order is the caller's concern.
func (r *Registry) ResolveVisibleColumns(granted RoleSet, override ColumnSet) (ColumnSet, error) {
	if len(granted) == 0 {
		return nil, ErrEmptyRoleSet
	}
	for role := range granted {
		if !r.KnownRole(role) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
		}
	}

	// Manual customization wins over presets and defaults.
	if override != nil {
		result := make(ColumnSet, len(override)+len(r.always))
		for id := range override {
			if _, known := r.columns[id]; known {
				result[id] = struct{}{}
			}
		}
		r.addAlwaysVisible(result)
		return result, nil
	}

	if len(granted) > 1 {
		if preset, ok := r.presets[PresetKey(granted.Sorted()...)]; ok {
			result := preset.Clone()
			r.addAlwaysVisible(result)
			return result, nil
		}
	}

	// Union of per-role defaults; only columns applicable to at least one
	// granted role qualify, so adding roles can only grow the result.
	result := make(ColumnSet)
	for id, col := range r.columns {
		if col.AlwaysVisible {
			continue
		}
		if !col.ApplicableRoles.Intersects(granted) {
			continue
		}
		if col.DefaultFor.Intersects(granted) {
			result[id] = struct{}{}
		}
	}
	r.addAlwaysVisible(result)
	return result, nil
}

func (r *Registry) addAlwaysVisible(set ColumnSet) {
	for id := range r.always {
		set[id] = struct{}{}
	}
}

// ResolveLabScope builds the predicate deciding which lab records a
// principal may reach. Selected membership and linkedLabs (labs pinned to a
// non-lab-access role assignment) merge by union; All ignores linkedLabs
// because it is already unrestricted, and None stays a deliberate lockout
// regardless of linkedLabs. Selected with no labs normalizes to None.
func ResolveLabScope(policy LabAccessPolicy, linkedLabs LabSet) LabPredicate {
	switch policy.Mode {
	case LabAccessAll:
		return func(LabID) bool { return true }
	case LabAccessSelected:
		if len(policy.Labs) == 0 && len(linkedLabs) == 0 {
			return func(LabID) bool { return false }
		}
		allowed := make(LabSet, len(policy.Labs)+len(linkedLabs))
		for id := range policy.Labs {
			allowed[id] = struct{}{}
		}
		for id := range linkedLabs {
			allowed[id] = struct{}{}
		}
		return allowed.Contains
	default:
		return func(LabID) bool { return false }
	}
}
