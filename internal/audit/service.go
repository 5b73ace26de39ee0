package audit

import (
	"context"

	"github.com/helios-ris/helios-ris/internal/shared"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// RepositoryPort defines data access for the audit timeline.
type RepositoryPort interface {
	Timeline(ctx context.Context, f Filters, limit, offset int) ([]Entry, int, error)
}

// Result is one timeline page plus its pagination metadata.
type Result struct {
	Entries []Entry
	Paging  shared.Pagination
}

// Service coordinates audit timeline reads.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Timeline returns one page of audit entries matching the filters.
func (s *Service) Timeline(ctx context.Context, f Filters) (Result, error) {
	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	entries, total, err := s.repo.Timeline(ctx, f, pageSize, (page-1)*pageSize)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Entries: entries,
		Paging:  shared.NewPagination(page, pageSize, total),
	}, nil
}
