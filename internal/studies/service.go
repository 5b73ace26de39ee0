package studies

import (
	"context"
	"time"

	"github.com/helios-ris/helios-ris/internal/capability"
)

const defaultListLimit = 200

// RepositoryPort defines data access methods for the worklist.
type RepositoryPort interface {
	ListRecent(ctx context.Context, limit int) ([]Study, error)
}

// ProfileResolver supplies the resolved capability profile for an account.
type ProfileResolver interface {
	Profile(ctx context.Context, accountID int64) (capability.Profile, error)
}

// LabDirectory supplies the universe of active labs that Selected scopes are
// interpreted against.
type LabDirectory interface {
	ActiveLabSet(ctx context.Context) (capability.LabSet, error)
}

// Service assembles the worklist a principal may see: rows filtered by the
// resolved lab predicate and the active-lab universe, fields projected down
// to the resolved visible columns.
type Service struct {
	repo     RepositoryPort
	profiles ProfileResolver
	labs     LabDirectory
	now      func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, profiles ProfileResolver, labs LabDirectory) *Service {
	return &Service{repo: repo, profiles: profiles, labs: labs, now: time.Now}
}

// Worklist is the response shape for a study listing: the columns the
// principal may see plus one projected row per reachable study.
type Worklist struct {
	Columns []capability.ColumnID `json:"columns"`
	Rows    []map[string]any      `json:"rows"`
}

// List resolves the principal's capability profile and returns the scoped,
// projected worklist.
func (s *Service) List(ctx context.Context, p capability.Principal) (Worklist, error) {
	profile, err := s.profiles.Profile(ctx, p.ID)
	if err != nil {
		return Worklist{}, err
	}
	active, err := s.labs.ActiveLabSet(ctx)
	if err != nil {
		return Worklist{}, err
	}
	inScope := profile.LabPredicate()
	visible := profile.ColumnSet()

	all, err := s.repo.ListRecent(ctx, defaultListLimit)
	if err != nil {
		return Worklist{}, err
	}

	rows := make([]map[string]any, 0, len(all))
	for _, study := range all {
		labID := capability.LabID(study.LabID)
		if !active.Contains(labID) || !inScope(labID) {
			continue
		}
		study.Turnaround = s.now().Sub(study.StudyDate).Round(time.Minute)
		rows = append(rows, study.Project(visible))
	}
	return Worklist{Columns: profile.VisibleColumns, Rows: rows}, nil
}
