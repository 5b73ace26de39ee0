package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLabRefresh re-confirms the lab directory and deactivates stale labs.
	TaskLabRefresh = "labs:refresh"
	// TaskProfileSweep reclaims capability-profile cache entries whose
	// principal version moved on.
	TaskProfileSweep = "capability:profile_sweep"
)

// LabRefreshPayload configures one directory refresh run.
type LabRefreshPayload struct {
	// StaleAfterMinutes marks labs inactive when the directory has not
	// confirmed them within this window.
	StaleAfterMinutes int `json:"stale_after_minutes"`
}

// NewLabRefreshTask constructs an Asynq task.
func NewLabRefreshTask(payload LabRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLabRefresh, data), nil
}

// NewProfileSweepTask constructs an Asynq task.
func NewProfileSweepTask() *asynq.Task {
	return asynq.NewTask(TaskProfileSweep, nil)
}
