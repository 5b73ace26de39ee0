package principals

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"log/slog"

	"github.com/helios-ris/helios-ris/internal/capability"
	"github.com/helios-ris/helios-ris/internal/shared"
)

// ErrUnknownColumn indicates an override referencing a column id the
// registry does not define.
var ErrUnknownColumn = errors.New("principals: unknown column")

// ErrUnknownLabAccessMode indicates a lab policy with an invalid mode tag.
var ErrUnknownLabAccessMode = errors.New("principals: unknown lab access mode")

// RepositoryPort defines data access methods for principal records.
type RepositoryPort interface {
	GetByAccount(ctx context.Context, accountID int64) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Replace(ctx context.Context, rec Record, expectedVersion int64) (Record, error)
}

// Service owns principal lifecycle: reads for the guard and resolvers,
// audited copy-on-write edits, and the version-keyed profile cache.
type Service struct {
	repo     RepositoryPort
	registry *capability.Registry
	cache    *ProfileCache
	audit    *shared.AuditLogger
	logger   *slog.Logger
}

// NewService builds a Service instance. cache and audit may be nil in tests.
func NewService(repo RepositoryPort, registry *capability.Registry, cache *ProfileCache, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, registry: registry, cache: cache, audit: audit, logger: logger}
}

// PrincipalByAccount loads the current principal value for the guard.
func (s *Service) PrincipalByAccount(ctx context.Context, accountID int64) (capability.Principal, error) {
	rec, err := s.repo.GetByAccount(ctx, accountID)
	if err != nil {
		return capability.Principal{}, err
	}
	return rec.Capability(), nil
}

var _ capability.PrincipalSource = (*Service)(nil)

// Profile resolves the capability profile for an account, served from the
// version-keyed cache when warm. Cache failures degrade to a fresh resolve.
func (s *Service) Profile(ctx context.Context, accountID int64) (capability.Profile, error) {
	rec, err := s.repo.GetByAccount(ctx, accountID)
	if err != nil {
		return capability.Profile{}, err
	}
	if s.cache != nil {
		if profile, ok, err := s.cache.Get(ctx, rec.AccountID, rec.Version); err != nil {
			s.warn("profile cache get", err)
		} else if ok {
			return profile, nil
		}
	}
	profile, err := s.registry.ResolveProfile(rec.Capability())
	if err != nil {
		return capability.Profile{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, profile); err != nil {
			s.warn("profile cache set", err)
		}
	}
	return profile, nil
}

// List returns every principal record.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

// UpdateRoles replaces an account's role grants.
func (s *Service) UpdateRoles(ctx context.Context, actorID, accountID int64, roles []string) (Record, error) {
	if len(roles) == 0 {
		return Record{}, capability.ErrEmptyRoleSet
	}
	for _, role := range roles {
		if !s.registry.KnownRole(capability.Role(role)) {
			return Record{}, fmt.Errorf("%w: %q", capability.ErrUnknownRole, role)
		}
	}
	return s.replace(ctx, actorID, accountID, "principal.roles.update", func(rec *Record) {
		rec.Roles = append([]string(nil), roles...)
	})
}

// UpdateColumnOverride replaces an account's explicit column selection. A nil
// override clears the customization so presets/defaults apply again; an empty
// non-nil override is a deliberate minimal selection.
func (s *Service) UpdateColumnOverride(ctx context.Context, actorID, accountID int64, override []string, clear bool) (Record, error) {
	if !clear {
		for _, id := range override {
			if _, ok := s.registry.Column(capability.ColumnID(id)); !ok {
				return Record{}, fmt.Errorf("%w %q", ErrUnknownColumn, id)
			}
		}
	}
	return s.replace(ctx, actorID, accountID, "principal.columns.update", func(rec *Record) {
		if clear {
			rec.ColumnOverride = nil
			return
		}
		if override == nil {
			override = []string{}
		}
		rec.ColumnOverride = append([]string{}, override...)
	})
}

// UpdateLabPolicy replaces an account's lab access policy and linked labs.
func (s *Service) UpdateLabPolicy(ctx context.Context, actorID, accountID int64, mode string, labIDs, linked []string) (Record, error) {
	switch capability.LabAccessMode(mode) {
	case capability.LabAccessAll, capability.LabAccessSelected, capability.LabAccessNone:
	default:
		return Record{}, fmt.Errorf("%w %q", ErrUnknownLabAccessMode, mode)
	}
	return s.replace(ctx, actorID, accountID, "principal.labpolicy.update", func(rec *Record) {
		rec.LabAccessMode = mode
		rec.LabIDs = append([]string(nil), labIDs...)
		rec.LinkedLabIDs = append([]string(nil), linked...)
	})
}

// replace performs a copy-on-write edit: read the current record, apply the
// mutation to the copy, swap it in guarded by the version read, then
// invalidate cached profiles and write the audit trail.
func (s *Service) replace(ctx context.Context, actorID, accountID int64, action string, mutate func(*Record)) (Record, error) {
	current, err := s.repo.GetByAccount(ctx, accountID)
	if err != nil {
		return Record{}, err
	}
	next := current
	mutate(&next)
	updated, err := s.repo.Replace(ctx, next, current.Version)
	if err != nil {
		return Record{}, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, accountID); err != nil {
			s.warn("profile cache invalidate", err)
		}
	}
	if s.audit != nil {
		if err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   action,
			Entity:   "principal",
			EntityID: strconv.FormatInt(accountID, 10),
			Meta: map[string]any{
				"version": updated.Version,
			},
		}); err != nil {
			s.warn("audit principal edit", err)
		}
	}
	return updated, nil
}

func (s *Service) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, slog.Any("error", err))
	}
}
