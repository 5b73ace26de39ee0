package studies

import (
	"time"

	"github.com/helios-ris/helios-ris/internal/capability"
)

// Study is one lab-scoped imaging study on the worklist.
type Study struct {
	ID          int64
	LabID       string
	LabName     string
	PatientID   string
	PatientName string
	Accession   string
	Modality    string
	Status      string
	StudyDate   time.Time
	AssignedTo  string
	ReportedBy  string
	VerifiedBy  string
	Referrer    string
	BillingCode string
	Turnaround  time.Duration
}

// Project reduces the study to the fields behind the given visible columns.
// Fields outside the set are absent from the result, not blanked, so a
// response never hints at data the principal may not see.
func (s Study) Project(visible capability.ColumnSet) map[string]any {
	row := make(map[string]any, len(visible))
	put := func(id capability.ColumnID, value any) {
		if visible.Contains(id) {
			row[string(id)] = value
		}
	}
	put(capability.ColPatientID, s.PatientID)
	put(capability.ColPatientName, s.PatientName)
	put(capability.ColAccession, s.Accession)
	put(capability.ColModality, s.Modality)
	put(capability.ColStatus, s.Status)
	put(capability.ColLabName, s.LabName)
	put(capability.ColStudyDate, s.StudyDate.Format(time.RFC3339))
	put(capability.ColAssignedTo, s.AssignedTo)
	put(capability.ColReportedBy, s.ReportedBy)
	put(capability.ColVerifiedBy, s.VerifiedBy)
	put(capability.ColReferrer, s.Referrer)
	put(capability.ColBillingCode, s.BillingCode)
	put(capability.ColTAT, s.Turnaround.String())
	return row
}
