package labs_test

import (
	"context"
	"testing"
	"time"

	"github.com/helios-ris/helios-ris/internal/labs"
	_ "github.com/helios-ris/helios-ris/testing"
)

type stubRepo struct {
	labs        []labs.Lab
	touched     []string
	touchedAt   time.Time
	staleCutoff time.Time
	deactivated int64
}

func (s *stubRepo) ListLabs(_ context.Context) ([]labs.Lab, error) {
	return s.labs, nil
}

func (s *stubRepo) ActiveLabIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.labs))
	for _, lab := range s.labs {
		if lab.IsActive {
			ids = append(ids, lab.ID)
		}
	}
	return ids, nil
}

func (s *stubRepo) DeactivateStale(_ context.Context, cutoff time.Time) (int64, error) {
	s.staleCutoff = cutoff
	return s.deactivated, nil
}

func (s *stubRepo) TouchSeen(_ context.Context, ids []string, at time.Time) error {
	s.touched = ids
	s.touchedAt = at
	return nil
}

func TestActiveLabSetSkipsInactive(t *testing.T) {
	repo := &stubRepo{labs: []labs.Lab{
		{ID: "lab-1", Name: "North Imaging", IsActive: true},
		{ID: "lab-2", Name: "South Imaging", IsActive: false},
		{ID: "lab-3", Name: "East Imaging", IsActive: true},
	}}
	svc := labs.NewService(repo)

	set, err := svc.ActiveLabSet(context.Background())
	if err != nil {
		t.Fatalf("active lab set: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected two active labs, got %v", set.Sorted())
	}
	if !set.Contains("lab-1") || !set.Contains("lab-3") {
		t.Fatalf("wrong active labs: %v", set.Sorted())
	}
	if set.Contains("lab-2") {
		t.Fatalf("inactive lab must not be in the universe")
	}
}

func TestRefreshTouchesConfirmedThenDeactivates(t *testing.T) {
	repo := &stubRepo{deactivated: 1}
	svc := labs.NewService(repo)
	cutoff := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	n, err := svc.Refresh(context.Background(), []string{"lab-1", "lab-3"}, cutoff)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one deactivation, got %d", n)
	}
	if len(repo.touched) != 2 {
		t.Fatalf("confirmed ids not marked as seen: %v", repo.touched)
	}
	if !repo.staleCutoff.Equal(cutoff) {
		t.Fatalf("wrong cutoff: %v", repo.staleCutoff)
	}
}
