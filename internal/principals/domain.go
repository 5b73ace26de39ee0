package principals

import (
	"time"

	"github.com/helios-ris/helios-ris/internal/capability"
)

// Record is the persisted principal value: one row per account carrying role
// grants, the optional column override, and the lab access policy. Version
// increments on every replacement; resolvers and caches key off it.
type Record struct {
	AccountID      int64
	Version        int64
	Roles          []string
	ColumnOverride []string // nil when not customized, empty when explicitly minimal
	LabAccessMode  string
	LabIDs         []string
	LinkedLabIDs   []string
	UpdatedAt      time.Time
}

// Capability converts the stored record into the value the resolvers consume.
func (r Record) Capability() capability.Principal {
	roles := make(capability.RoleSet, len(r.Roles))
	for _, role := range r.Roles {
		roles[capability.Role(role)] = struct{}{}
	}
	var override capability.ColumnSet
	if r.ColumnOverride != nil {
		override = make(capability.ColumnSet, len(r.ColumnOverride))
		for _, id := range r.ColumnOverride {
			override[capability.ColumnID(id)] = struct{}{}
		}
	}
	labIDs := make(capability.LabSet, len(r.LabIDs))
	for _, id := range r.LabIDs {
		labIDs[capability.LabID(id)] = struct{}{}
	}
	linked := make(capability.LabSet, len(r.LinkedLabIDs))
	for _, id := range r.LinkedLabIDs {
		linked[capability.LabID(id)] = struct{}{}
	}
	return capability.Principal{
		ID:             r.AccountID,
		Version:        r.Version,
		Roles:          roles,
		ColumnOverride: override,
		LabPolicy: capability.LabAccessPolicy{
			Mode: capability.LabAccessMode(r.LabAccessMode),
			Labs: labIDs,
		},
		LinkedLabs: linked,
	}
}
