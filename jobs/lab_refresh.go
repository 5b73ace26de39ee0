package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/helios-ris/helios-ris/internal/jobs"
	"github.com/helios-ris/helios-ris/internal/labs"
)

// DirectorySource lists the lab ids the upstream directory currently offers.
type DirectorySource interface {
	ActiveLabIDs(ctx context.Context) ([]string, error)
}

// LabRefreshJob re-confirms directory membership and deactivates labs the
// directory stopped offering. Lab scopes resolved afterwards no longer reach
// studies owned by deactivated labs.
type LabRefreshJob struct {
	Service   *labs.Service
	Directory DirectorySource
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewLabRefreshJob initialises the refresh handler.
func NewLabRefreshJob(service *labs.Service, directory DirectorySource, logger *slog.Logger) *LabRefreshJob {
	return &LabRefreshJob{
		Service:   service,
		Directory: directory,
		Logger:    logger,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes one refresh run.
func (j *LabRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	return j.Metrics.Track(TaskLabRefresh).End(j.run(ctx, t))
}

func (j *LabRefreshJob) run(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("lab refresh: handler not configured")
	}
	var payload LabRefreshPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.StaleAfterMinutes <= 0 {
		payload.StaleAfterMinutes = 60
	}

	confirmed, err := j.Directory.ActiveLabIDs(ctx)
	if err != nil {
		return err
	}
	cutoff := j.clock().Add(-time.Duration(payload.StaleAfterMinutes) * time.Minute)
	deactivated, err := j.Service.Refresh(ctx, confirmed, cutoff)
	if err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("lab directory refreshed",
			slog.Int("confirmed", len(confirmed)),
			slog.Int64("deactivated", deactivated))
	}
	return nil
}
