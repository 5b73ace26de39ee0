package labs

import (
	"context"
	"time"

	"github.com/helios-ris/helios-ris/internal/capability"
)

// RepositoryPort defines data access methods for the lab directory.
type RepositoryPort interface {
	ListLabs(ctx context.Context) ([]Lab, error)
	ActiveLabIDs(ctx context.Context) ([]string, error)
	DeactivateStale(ctx context.Context, cutoff time.Time) (int64, error)
	TouchSeen(ctx context.Context, ids []string, at time.Time) error
}

// Service handles lab directory business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListLabs returns the full directory.
func (s *Service) ListLabs(ctx context.Context) ([]Lab, error) {
	return s.repo.ListLabs(ctx)
}

// ActiveLabSet returns the ids of active labs as a set. Selected lab scopes
// are interpreted against this universe: a selected id pointing at an
// inactive lab grants nothing.
func (s *Service) ActiveLabSet(ctx context.Context) (capability.LabSet, error) {
	ids, err := s.repo.ActiveLabIDs(ctx)
	if err != nil {
		return nil, err
	}
	set := make(capability.LabSet, len(ids))
	for _, id := range ids {
		set[capability.LabID(id)] = struct{}{}
	}
	return set, nil
}

// Refresh confirms the given directory ids and deactivates labs unseen since
// the cutoff. Used by the periodic directory-refresh job.
func (s *Service) Refresh(ctx context.Context, confirmed []string, cutoff time.Time) (int64, error) {
	if err := s.repo.TouchSeen(ctx, confirmed, time.Now().UTC()); err != nil {
		return 0, err
	}
	return s.repo.DeactivateStale(ctx, cutoff)
}
