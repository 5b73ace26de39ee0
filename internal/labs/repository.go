package labs

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for the lab directory.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListLabs returns every lab ordered by name.
func (r *Repository) ListLabs(ctx context.Context) ([]Lab, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, city, is_active, seen_at, created_at, updated_at FROM labs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var labs []Lab
	for rows.Next() {
		var lab Lab
		if err := rows.Scan(&lab.ID, &lab.Name, &lab.City, &lab.IsActive, &lab.SeenAt, &lab.CreatedAt, &lab.UpdatedAt); err != nil {
			return nil, err
		}
		labs = append(labs, lab)
	}
	return labs, rows.Err()
}

// ActiveLabIDs returns the ids of every active lab.
func (r *Repository) ActiveLabIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM labs WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeactivateStale marks labs inactive when the directory has not confirmed
// them since the cutoff. Returns the number of labs deactivated.
func (r *Repository) DeactivateStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE labs SET is_active = FALSE, updated_at = NOW() WHERE is_active AND seen_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// TouchSeen refreshes the directory confirmation stamp for the given labs.
func (r *Repository) TouchSeen(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE labs SET seen_at = $2, is_active = TRUE, updated_at = NOW() WHERE id = ANY($1)`, ids, at)
	return err
}
