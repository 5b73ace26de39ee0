package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/helios-ris/helios-ris/internal/labs"
	"github.com/helios-ris/helios-ris/jobs"
	_ "github.com/helios-ris/helios-ris/testing"
)

type stubLabRepo struct {
	active      []string
	touched     []string
	cutoff      time.Time
	deactivated int64
}

func (s *stubLabRepo) ListLabs(_ context.Context) ([]labs.Lab, error) { return nil, nil }

func (s *stubLabRepo) ActiveLabIDs(_ context.Context) ([]string, error) {
	return s.active, nil
}

func (s *stubLabRepo) DeactivateStale(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.deactivated, nil
}

func (s *stubLabRepo) TouchSeen(_ context.Context, ids []string, _ time.Time) error {
	s.touched = ids
	return nil
}

func TestLabRefreshHandleConfirmsAndDeactivates(t *testing.T) {
	repo := &stubLabRepo{active: []string{"lab-1", "lab-2"}, deactivated: 3}
	job := jobs.NewLabRefreshJob(labs.NewService(repo), repo, nil)

	task, err := jobs.NewLabRefreshTask(jobs.LabRefreshPayload{StaleAfterMinutes: 120})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(repo.touched) != 2 {
		t.Fatalf("directory ids not confirmed: %v", repo.touched)
	}
	window := time.Since(repo.cutoff)
	if window < 119*time.Minute || window > 121*time.Minute {
		t.Fatalf("cutoff does not honor the payload window: %v ago", window)
	}
}

func TestLabRefreshHandleDefaultsStaleWindow(t *testing.T) {
	repo := &stubLabRepo{}
	job := jobs.NewLabRefreshJob(labs.NewService(repo), repo, nil)

	if err := job.Handle(context.Background(), asynq.NewTask(jobs.TaskLabRefresh, nil)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	window := time.Since(repo.cutoff)
	if window < 59*time.Minute || window > 61*time.Minute {
		t.Fatalf("expected the 60 minute default window, got %v", window)
	}
}

func TestLabRefreshHandleSkipsRetryOnBadPayload(t *testing.T) {
	repo := &stubLabRepo{}
	job := jobs.NewLabRefreshJob(labs.NewService(repo), repo, nil)

	err := job.Handle(context.Background(), asynq.NewTask(jobs.TaskLabRefresh, []byte("{not json")))
	if err != asynq.SkipRetry {
		t.Fatalf("malformed payload must skip retry, got %v", err)
	}
}
