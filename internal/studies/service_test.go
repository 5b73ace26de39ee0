package studies_test

import (
	"context"
	"testing"
	"time"

	"github.com/helios-ris/helios-ris/internal/capability"
	"github.com/helios-ris/helios-ris/internal/studies"
	_ "github.com/helios-ris/helios-ris/testing"
)

type stubRepo struct {
	studies []studies.Study
}

func (s *stubRepo) ListRecent(_ context.Context, limit int) ([]studies.Study, error) {
	if len(s.studies) > limit {
		return s.studies[:limit], nil
	}
	return s.studies, nil
}

type stubProfiles struct {
	profile capability.Profile
}

func (s *stubProfiles) Profile(_ context.Context, _ int64) (capability.Profile, error) {
	return s.profile, nil
}

type stubLabs struct {
	active capability.LabSet
}

func (s *stubLabs) ActiveLabSet(_ context.Context) (capability.LabSet, error) {
	return s.active, nil
}

func fixtureStudies(base time.Time) []studies.Study {
	return []studies.Study{
		{
			ID: 1, LabID: "lab-1", LabName: "North Imaging",
			PatientID: "P-100", PatientName: "Doe, J",
			Modality: "CT", Status: "reported",
			StudyDate: base.Add(-90 * time.Minute),
		},
		{
			ID: 2, LabID: "lab-2", LabName: "South Imaging",
			PatientID: "P-200", PatientName: "Roe, A",
			Modality: "MR", Status: "pending",
			StudyDate: base.Add(-30 * time.Minute),
		},
		{
			ID: 3, LabID: "lab-3", LabName: "Closed Lab",
			PatientID: "P-300",
			Modality:  "US", Status: "pending",
			StudyDate: base.Add(-10 * time.Minute),
		},
	}
}

func TestListFiltersByLabScope(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := studies.NewService(
		&stubRepo{studies: fixtureStudies(now)},
		&stubProfiles{profile: capability.Profile{
			VisibleColumns: []capability.ColumnID{capability.ColPatientID, capability.ColStatus},
			LabAccessMode:  capability.LabAccessSelected,
			LabIDs:         []capability.LabID{"lab-1", "lab-3"},
		}},
		&stubLabs{active: capability.NewLabSet("lab-1", "lab-2", "lab-3")},
	)

	list, err := svc.List(context.Background(), capability.Principal{ID: 42})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Rows) != 2 {
		t.Fatalf("expected studies from lab-1 and lab-3 only, got %d rows", len(list.Rows))
	}
	for _, row := range list.Rows {
		if row["patientId"] == "P-200" {
			t.Fatalf("lab-2 study leaked into a selected scope excluding it")
		}
	}
}

func TestListExcludesInactiveLabs(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := studies.NewService(
		&stubRepo{studies: fixtureStudies(now)},
		&stubProfiles{profile: capability.Profile{
			VisibleColumns: []capability.ColumnID{capability.ColPatientID},
			LabAccessMode:  capability.LabAccessAll,
		}},
		// lab-3 dropped out of the directory; even an all-access
		// principal must not see its studies.
		&stubLabs{active: capability.NewLabSet("lab-1", "lab-2")},
	)

	list, err := svc.List(context.Background(), capability.Principal{ID: 42})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Rows) != 2 {
		t.Fatalf("expected two rows from active labs, got %d", len(list.Rows))
	}
	for _, row := range list.Rows {
		if row["patientId"] == "P-300" {
			t.Fatalf("study from an inactive lab leaked through")
		}
	}
}

func TestListLockedOutPrincipalSeesNothing(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := studies.NewService(
		&stubRepo{studies: fixtureStudies(now)},
		&stubProfiles{profile: capability.Profile{
			VisibleColumns: []capability.ColumnID{capability.ColPatientID},
			LabAccessMode:  capability.LabAccessNone,
		}},
		&stubLabs{active: capability.NewLabSet("lab-1", "lab-2", "lab-3")},
	)

	list, err := svc.List(context.Background(), capability.Principal{ID: 42})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Rows) != 0 {
		t.Fatalf("none mode must return an empty worklist, got %d rows", len(list.Rows))
	}
}

func TestListProjectsOnlyVisibleColumns(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := studies.NewService(
		&stubRepo{studies: fixtureStudies(now)[:1]},
		&stubProfiles{profile: capability.Profile{
			VisibleColumns: []capability.ColumnID{
				capability.ColPatientID, capability.ColStatus, capability.ColTAT,
			},
			LabAccessMode: capability.LabAccessAll,
		}},
		&stubLabs{active: capability.NewLabSet("lab-1")},
	)

	list, err := svc.List(context.Background(), capability.Principal{ID: 42})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(list.Rows))
	}
	row := list.Rows[0]
	if len(row) != 3 {
		t.Fatalf("hidden fields must be absent, not blanked: %v", row)
	}
	if row["patientId"] != "P-100" || row["status"] != "reported" {
		t.Fatalf("unexpected projection: %v", row)
	}
	if _, ok := row["patientName"]; ok {
		t.Fatalf("patientName is outside the visible set: %v", row)
	}
	if _, ok := row["turnaround"]; !ok {
		t.Fatalf("turnaround column missing: %v", row)
	}
}
