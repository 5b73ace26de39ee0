package capability_test

import (
	"errors"
	"testing"

	"github.com/helios-ris/helios-ris/internal/capability"
)

func TestResolvePrimaryRoleEmptySet(t *testing.T) {
	reg := loadScenarioRegistry(t)

	_, err := reg.ResolvePrimaryRole(capability.NewRoleSet())
	if !errors.Is(err, capability.ErrEmptyRoleSet) {
		t.Fatalf("expected ErrEmptyRoleSet, got %v", err)
	}
}

func TestResolvePrimaryRoleUnknownRole(t *testing.T) {
	reg := loadScenarioRegistry(t)

	_, err := reg.ResolvePrimaryRole(capability.NewRoleSet(capability.RoleAdmin, "intruder"))
	if !errors.Is(err, capability.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestResolvePrimaryRoleHighestRankWins(t *testing.T) {
	reg := loadScenarioRegistry(t)

	got, err := reg.ResolvePrimaryRole(capability.NewRoleSet(capability.RoleVerifier, capability.RoleAssignor))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != capability.RoleAssignor {
		t.Fatalf("expected assignor (rank 70) over verifier (rank 50), got %s", got)
	}
}

func TestResolvePrimaryRoleTieBreak(t *testing.T) {
	reg := loadScenarioRegistry(t)

	// radiologist and typist share rank 60; the secondary ordering places
	// radiologist first.
	got, err := reg.ResolvePrimaryRole(capability.NewRoleSet(capability.RoleTypist, capability.RoleRadiologist))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != capability.RoleRadiologist {
		t.Fatalf("expected radiologist to win the rank tie, got %s", got)
	}
}

func TestResolvePrimaryRoleDeterministic(t *testing.T) {
	reg := loadScenarioRegistry(t)
	roles := []capability.Role{
		capability.RoleTypist,
		capability.RoleRadiologist,
		capability.RoleVerifier,
	}

	// Map iteration order varies between runs and between freshly built
	// sets; the winner must not.
	for i := 0; i < 100; i++ {
		set := capability.NewRoleSet(roles[i%3], roles[(i+1)%3], roles[(i+2)%3])
		got, err := reg.ResolvePrimaryRole(set)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got != capability.RoleRadiologist {
			t.Fatalf("iteration %d: expected radiologist, got %s", i, got)
		}
	}
}

func TestResolveVisibleColumnsDefaults(t *testing.T) {
	reg := loadScenarioRegistry(t)

	cases := []struct {
		name    string
		granted capability.RoleSet
		want    []capability.ColumnID
	}{
		{
			name:    "typist defaults",
			granted: capability.NewRoleSet(capability.RoleTypist),
			want:    []capability.ColumnID{"modality", "patientId"},
		},
		{
			name:    "verifier defaults",
			granted: capability.NewRoleSet(capability.RoleVerifier),
			want:    []capability.ColumnID{"patientId", "reportedBy", "status"},
		},
		{
			name: "union across roles without a preset",
			granted: capability.NewRoleSet(
				capability.RoleTypist, capability.RoleVerifier,
			),
			want: []capability.ColumnID{"modality", "patientId", "reportedBy", "status"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reg.ResolveVisibleColumns(tc.granted, nil)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			assertColumns(t, got, tc.want)
		})
	}
}

func TestResolveVisibleColumnsPreset(t *testing.T) {
	reg := loadScenarioRegistry(t)

	got, err := reg.ResolveVisibleColumns(
		capability.NewRoleSet(capability.RoleRadiologist, capability.RoleAssignor), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	assertColumns(t, got, []capability.ColumnID{"modality", "patientId", "status"})
}

func TestResolveVisibleColumnsOverrideWins(t *testing.T) {
	reg := loadScenarioRegistry(t)

	// The override beats the assignor+radiologist preset; unknown ids are
	// silently dropped and always-visible columns still come back.
	override := capability.NewColumnSet("reportedBy", "retiredColumn")
	got, err := reg.ResolveVisibleColumns(
		capability.NewRoleSet(capability.RoleRadiologist, capability.RoleAssignor), override)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	assertColumns(t, got, []capability.ColumnID{"patientId", "reportedBy"})
}

func TestResolveVisibleColumnsEmptyOverride(t *testing.T) {
	reg := loadScenarioRegistry(t)

	// A non-nil empty override is an explicit minimal selection, not an
	// absent one: only always-visible columns survive.
	got, err := reg.ResolveVisibleColumns(
		capability.NewRoleSet(capability.RoleVerifier), capability.NewColumnSet())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	assertColumns(t, got, []capability.ColumnID{"patientId"})
}

func TestResolveVisibleColumnsMonotonicOnDefaultPath(t *testing.T) {
	reg := loadScenarioRegistry(t)

	narrow, err := reg.ResolveVisibleColumns(capability.NewRoleSet(capability.RoleTypist), nil)
	if err != nil {
		t.Fatalf("resolve narrow: %v", err)
	}
	wide, err := reg.ResolveVisibleColumns(
		capability.NewRoleSet(capability.RoleTypist, capability.RoleVerifier), nil)
	if err != nil {
		t.Fatalf("resolve wide: %v", err)
	}
	for id := range narrow {
		if !wide.Contains(id) {
			t.Fatalf("adding a role removed column %s", id)
		}
	}
}

func TestResolveVisibleColumnsAlwaysIncludesAlwaysVisible(t *testing.T) {
	reg := loadScenarioRegistry(t)
	granted := capability.NewRoleSet(capability.RoleRadiologist, capability.RoleAssignor)

	overrides := []capability.ColumnSet{
		nil,
		capability.NewColumnSet(),
		capability.NewColumnSet("modality"),
	}
	for _, override := range overrides {
		got, err := reg.ResolveVisibleColumns(granted, override)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		for id := range reg.AlwaysVisible() {
			if !got.Contains(id) {
				t.Fatalf("always-visible column %s missing (override=%v)", id, override)
			}
		}
	}
}

func TestResolveLabScopeAll(t *testing.T) {
	pred := capability.ResolveLabScope(
		capability.LabAccessPolicy{Mode: capability.LabAccessAll},
		capability.NewLabSet("lab-1"))
	if !pred("lab-1") || !pred("lab-999") {
		t.Fatalf("all mode must admit any lab")
	}
}

func TestResolveLabScopeSelected(t *testing.T) {
	pred := capability.ResolveLabScope(
		capability.LabAccessPolicy{Mode: capability.LabAccessSelected, Labs: capability.NewLabSet("lab-1", "lab-2")},
		capability.NewLabSet("lab-3"))
	for _, id := range []capability.LabID{"lab-1", "lab-2", "lab-3"} {
		if !pred(id) {
			t.Fatalf("expected %s in scope", id)
		}
	}
	if pred("lab-4") {
		t.Fatalf("lab-4 is outside both the selection and the linked labs")
	}
}

func TestResolveLabScopeSelectedEmptyNormalizesToNone(t *testing.T) {
	pred := capability.ResolveLabScope(
		capability.LabAccessPolicy{Mode: capability.LabAccessSelected}, nil)
	if pred("lab-1") {
		t.Fatalf("selected mode with no labs must admit nothing")
	}
}

func TestResolveLabScopeSelectedEmptyStillMergesLinked(t *testing.T) {
	pred := capability.ResolveLabScope(
		capability.LabAccessPolicy{Mode: capability.LabAccessSelected},
		capability.NewLabSet("lab-7"))
	if !pred("lab-7") {
		t.Fatalf("linked lab must stay reachable")
	}
	if pred("lab-8") {
		t.Fatalf("lab-8 was never linked or selected")
	}
}

func TestResolveLabScopeNoneIgnoresLinked(t *testing.T) {
	pred := capability.ResolveLabScope(
		capability.LabAccessPolicy{Mode: capability.LabAccessNone},
		capability.NewLabSet("lab-1"))
	if pred("lab-1") {
		t.Fatalf("none mode is a lockout regardless of linked labs")
	}
}

func assertColumns(t *testing.T, got capability.ColumnSet, want []capability.ColumnID) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected columns %v, got %v", want, got.Sorted())
	}
	for _, id := range want {
		if !got.Contains(id) {
			t.Fatalf("missing column %s in %v", id, got.Sorted())
		}
	}
}
