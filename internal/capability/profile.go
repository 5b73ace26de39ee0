package capability

// Profile is the resolved capability set for one principal at one version.
// It is a pure function of the principal and the registry, safe to cache
// keyed by (principal id, version).
type Profile struct {
	PrincipalID    int64       `json:"principal_id"`
	Version        int64       `json:"version"`
	PrimaryRole    Role        `json:"primary_role"`
	Tier           Tier        `json:"tier"`
	DashboardRoute string      `json:"dashboard_route"`
	VisibleColumns []ColumnID  `json:"visible_columns"`
	LabAccessMode  LabAccessMode `json:"lab_access_mode"`
	LabIDs         []LabID     `json:"lab_ids,omitempty"`
}

// ResolveProfile derives the full capability profile for a principal.
// Columns and lab ids are emitted sorted so equal inputs serialize
// identically.
func (r *Registry) ResolveProfile(p Principal) (Profile, error) {
	primary, err := r.ResolvePrimaryRole(p.Roles)
	if err != nil {
		return Profile{}, err
	}
	columns, err := r.ResolveVisibleColumns(p.Roles, p.ColumnOverride)
	if err != nil {
		return Profile{}, err
	}
	route, _ := r.DashboardRoute(primary)
	tier, _ := r.TierOf(primary)

	profile := Profile{
		PrincipalID:    p.ID,
		Version:        p.Version,
		PrimaryRole:    primary,
		Tier:           tier,
		DashboardRoute: route,
		VisibleColumns: columns.Sorted(),
		LabAccessMode:  p.LabPolicy.Mode,
	}
	switch p.LabPolicy.Mode {
	case LabAccessSelected:
		merged := p.LabPolicy.Labs.Clone()
		if merged == nil {
			merged = make(LabSet)
		}
		for id := range p.LinkedLabs {
			merged[id] = struct{}{}
		}
		if len(merged) == 0 {
			// Selected with nothing selected collapses to an explicit lockout.
			profile.LabAccessMode = LabAccessNone
		} else {
			profile.LabIDs = merged.Sorted()
		}
	case LabAccessAll, LabAccessNone:
		// No id list: All is unrestricted, None is a lockout.
	default:
		profile.LabAccessMode = LabAccessNone
	}
	return profile, nil
}

// LabPredicate rebuilds the scope predicate from a (possibly cached) profile.
func (p Profile) LabPredicate() LabPredicate {
	policy := LabAccessPolicy{Mode: p.LabAccessMode, Labs: NewLabSet(p.LabIDs...)}
	return ResolveLabScope(policy, nil)
}

// ColumnSet rebuilds the visible-column set from a (possibly cached) profile.
func (p Profile) ColumnSet() ColumnSet {
	return NewColumnSet(p.VisibleColumns...)
}
