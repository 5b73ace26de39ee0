package principals

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helios-ris/helios-ris/internal/platform/db"
	"github.com/helios-ris/helios-ris/internal/shared"
)

// PGRepository provides PostgreSQL backed persistence for principal records.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const recordColumns = `account_id, version, roles, column_override, lab_access_mode, lab_ids, linked_lab_ids, updated_at`

// GetByAccount fetches the principal record for an account.
func (r *PGRepository) GetByAccount(ctx context.Context, accountID int64) (Record, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM principals WHERE account_id = $1`, accountID)
	return scanRecord(row)
}

// List returns every principal record ordered by account id.
func (r *PGRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM principals ORDER BY account_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Replace swaps the whole principal value in one transaction, guarded by the
// version the caller read. Partial in-place updates are not offered: a
// concurrent resolver must never observe a half-updated policy.
func (r *PGRepository) Replace(ctx context.Context, rec Record, expectedVersion int64) (Record, error) {
	var updated Record
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var current int64
		if err := tx.QueryRow(ctx,
			`SELECT version FROM principals WHERE account_id = $1 FOR UPDATE`, rec.AccountID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		if current != expectedVersion {
			return shared.ErrVersionConflict
		}
		row := tx.QueryRow(ctx,
			`UPDATE principals
			 SET roles = $2, column_override = $3, lab_access_mode = $4, lab_ids = $5, linked_lab_ids = $6,
			     version = version + 1, updated_at = NOW()
			 WHERE account_id = $1
			 RETURNING `+recordColumns,
			rec.AccountID, rec.Roles, rec.ColumnOverride, rec.LabAccessMode, rec.LabIDs, rec.LinkedLabIDs)
		var err error
		updated, err = scanRecord(row)
		return err
	})
	if err != nil {
		return Record{}, err
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	err := row.Scan(&rec.AccountID, &rec.Version, &rec.Roles, &rec.ColumnOverride,
		&rec.LabAccessMode, &rec.LabIDs, &rec.LinkedLabIDs, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, shared.ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}
