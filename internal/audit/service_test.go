package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/helios-ris/helios-ris/internal/audit"
	_ "github.com/helios-ris/helios-ris/testing"
)

type stubRepo struct {
	entries    []audit.Entry
	gotFilters audit.Filters
	gotLimit   int
	gotOffset  int
}

func (s *stubRepo) Timeline(_ context.Context, f audit.Filters, limit, offset int) ([]audit.Entry, int, error) {
	s.gotFilters = f
	s.gotLimit = limit
	s.gotOffset = offset

	if offset >= len(s.entries) {
		return nil, len(s.entries), nil
	}
	end := offset + limit
	if end > len(s.entries) {
		end = len(s.entries)
	}
	return s.entries[offset:end], len(s.entries), nil
}

func seedEntries(n int) []audit.Entry {
	entries := make([]audit.Entry, 0, n)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		entries = append(entries, audit.Entry{
			ID:       int64(n - i),
			ActorID:  1,
			Action:   "principal.roles.update",
			Entity:   "principal",
			EntityID: "42",
			At:       base.Add(-time.Duration(i) * time.Minute),
		})
	}
	return entries
}

func TestTimelinePaging(t *testing.T) {
	repo := &stubRepo{entries: seedEntries(45)}
	svc := audit.NewService(repo)
	ctx := context.Background()

	result, err := svc.Timeline(ctx, audit.Filters{Page: 2, PageSize: 20})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(result.Entries) != 20 {
		t.Fatalf("expected a full second page, got %d entries", len(result.Entries))
	}
	if repo.gotOffset != 20 {
		t.Fatalf("expected offset 20, got %d", repo.gotOffset)
	}
	if result.Paging.Total != 45 || result.Paging.TotalPages != 3 {
		t.Fatalf("wrong paging metadata: %+v", result.Paging)
	}
}

func TestTimelineDefaultsAndCaps(t *testing.T) {
	repo := &stubRepo{entries: seedEntries(5)}
	svc := audit.NewService(repo)
	ctx := context.Background()

	if _, err := svc.Timeline(ctx, audit.Filters{}); err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if repo.gotLimit != 20 || repo.gotOffset != 0 {
		t.Fatalf("expected default page size 20 at offset 0, got limit=%d offset=%d", repo.gotLimit, repo.gotOffset)
	}

	if _, err := svc.Timeline(ctx, audit.Filters{PageSize: 500}); err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if repo.gotLimit != 50 {
		t.Fatalf("page size must be capped at 50, got %d", repo.gotLimit)
	}
}

func TestTimelinePassesFiltersThrough(t *testing.T) {
	repo := &stubRepo{}
	svc := audit.NewService(repo)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Timeline(context.Background(), audit.Filters{
		From:    from,
		ActorID: 7,
		Entity:  "principal",
		Action:  "login",
	})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if !repo.gotFilters.From.Equal(from) || repo.gotFilters.ActorID != 7 {
		t.Fatalf("filters not forwarded: %+v", repo.gotFilters)
	}
	if repo.gotFilters.Entity != "principal" || repo.gotFilters.Action != "login" {
		t.Fatalf("filters not forwarded: %+v", repo.gotFilters)
	}
}
