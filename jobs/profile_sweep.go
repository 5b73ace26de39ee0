package jobs

import (
	"context"
	"errors"

	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/helios-ris/helios-ris/internal/jobs"
	"github.com/helios-ris/helios-ris/internal/principals"
)

// ProfileSweepJob deletes cached capability profiles whose principal version
// has moved on. Stale entries are already unreachable (lookups key on the
// live version); the sweep just reclaims Redis memory between TTL expiries.
type ProfileSweepJob struct {
	Repo    principals.RepositoryPort
	Cache   *principals.ProfileCache
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewProfileSweepJob initialises the sweep handler.
func NewProfileSweepJob(repo principals.RepositoryPort, cache *principals.ProfileCache, logger *slog.Logger) *ProfileSweepJob {
	return &ProfileSweepJob{Repo: repo, Cache: cache, Logger: logger}
}

// Handle executes one sweep run.
func (j *ProfileSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	return j.Metrics.Track(TaskProfileSweep).End(j.run(ctx, t))
}

func (j *ProfileSweepJob) run(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Repo == nil || j.Cache == nil {
		return errors.New("profile sweep: handler not configured")
	}
	records, err := j.Repo.List(ctx)
	if err != nil {
		return err
	}
	current := make(map[int64]int64, len(records))
	for _, rec := range records {
		current[rec.AccountID] = rec.Version
	}
	deleted, err := j.Cache.Sweep(ctx, current)
	if err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("profile cache swept", slog.Int("deleted", deleted))
	}
	return nil
}
