package studies

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for the worklist.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const studyColumns = `s.id, s.lab_id, l.name, s.patient_id, s.patient_name, s.accession, s.modality,
	s.status, s.study_date, s.assigned_to, s.reported_by, s.verified_by, s.referrer, s.billing_code`

// ListRecent returns the newest studies first, up to limit. Lab scoping is
// applied by the service on top of this slice; the repository stays policy
// free.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Study, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studyColumns+`
		 FROM studies s JOIN labs l ON l.id = s.lab_id
		 ORDER BY s.study_date DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var studies []Study
	for rows.Next() {
		var study Study
		if err := rows.Scan(&study.ID, &study.LabID, &study.LabName, &study.PatientID, &study.PatientName,
			&study.Accession, &study.Modality, &study.Status, &study.StudyDate, &study.AssignedTo,
			&study.ReportedBy, &study.VerifiedBy, &study.Referrer, &study.BillingCode); err != nil {
			return nil, err
		}
		studies = append(studies, study)
	}
	return studies, rows.Err()
}
