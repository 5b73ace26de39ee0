package capability

// Default column ids used by the study worklist.
const (
	ColPatientID   ColumnID = "patientId"
	ColPatientName ColumnID = "patientName"
	ColAccession   ColumnID = "accession"
	ColModality    ColumnID = "modality"
	ColStatus      ColumnID = "status"
	ColLabName     ColumnID = "labName"
	ColStudyDate   ColumnID = "studyDate"
	ColAssignedTo  ColumnID = "assignedTo"
	ColReportedBy  ColumnID = "reportedBy"
	ColVerifiedBy  ColumnID = "verifiedBy"
	ColReferrer    ColumnID = "referrer"
	ColBillingCode ColumnID = "billingCode"
	ColTAT         ColumnID = "turnaround"
)

// DefaultTables returns the registry tables the application ships with. The
// configuration loader may replace them wholesale; Load validates either way.
func DefaultTables() Tables {
	return Tables{
		Ranks: []RankEntry{
			{Role: RoleSuperAdmin, Rank: 100, Tier: TierAdministrative},
			{Role: RoleAdmin, Rank: 90, Tier: TierAdministrative},
			{Role: RoleGroup, Rank: 80, Tier: TierAdministrative},
			{Role: RoleAssignor, Rank: 70, Tier: TierClinical},
			{Role: RoleRadiologist, Rank: 60, Tier: TierClinical},
			{Role: RoleTypist, Rank: 60, Tier: TierClerical},
			{Role: RoleVerifier, Rank: 50, Tier: TierClinical},
			{Role: RolePhysician, Rank: 40, Tier: TierClinical},
			{Role: RoleReceptionist, Rank: 30, Tier: TierClerical},
			{Role: RoleBilling, Rank: 25, Tier: TierClerical},
			{Role: RoleDashboardViewer, Rank: 10, Tier: TierReadOnly},
		},
		// Secondary ordering for rank ties. Radiologist precedes typist:
		// clinical interpretation outranks transcription.
		TieBreak: []Role{
			RoleSuperAdmin,
			RoleAdmin,
			RoleGroup,
			RoleAssignor,
			RoleRadiologist,
			RoleTypist,
			RoleVerifier,
			RolePhysician,
			RoleReceptionist,
			RoleBilling,
			RoleDashboardViewer,
		},
		Columns: []ColumnDefinition{
			{ID: ColPatientID, Label: "Patient ID", Category: "patient", AlwaysVisible: true},
			{ID: ColStatus, Label: "Status", Category: "workflow", AlwaysVisible: true},
			{
				ID: ColPatientName, Label: "Patient Name", Category: "patient",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleGroup, RoleAssignor, RoleRadiologist, RoleTypist, RoleVerifier, RolePhysician, RoleReceptionist),
				DefaultFor:      NewRoleSet(RoleAdmin, RoleGroup, RoleAssignor, RoleRadiologist, RoleTypist, RoleVerifier, RolePhysician, RoleReceptionist),
			},
			{
				ID: ColAccession, Label: "Accession", Category: "study",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleGroup, RoleAssignor, RoleRadiologist, RoleTypist, RoleVerifier, RoleReceptionist, RoleBilling),
				DefaultFor:      NewRoleSet(RoleAssignor, RoleReceptionist, RoleBilling),
			},
			{
				ID: ColModality, Label: "Modality", Category: "study",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleGroup, RoleAssignor, RoleRadiologist, RoleTypist, RoleVerifier, RolePhysician, RoleDashboardViewer),
				DefaultFor:      NewRoleSet(RoleAssignor, RoleRadiologist, RoleTypist, RoleVerifier, RoleDashboardViewer),
			},
			{
				ID: ColLabName, Label: "Center", Category: "study",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleGroup, RoleAssignor, RoleVerifier, RoleBilling, RoleDashboardViewer),
				DefaultFor:      NewRoleSet(RoleAdmin, RoleGroup, RoleAssignor, RoleBilling),
			},
			{
				ID: ColStudyDate, Label: "Study Date", Category: "study",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleGroup, RoleAssignor, RoleRadiologist, RoleTypist, RoleVerifier, RolePhysician, RoleReceptionist, RoleBilling, RoleDashboardViewer),
				DefaultFor:      NewRoleSet(RoleAdmin, RoleGroup, RoleAssignor, RoleRadiologist, RoleTypist, RoleVerifier, RolePhysician, RoleReceptionist, RoleBilling, RoleDashboardViewer),
			},
			{
				ID: ColAssignedTo, Label: "Assigned To", Category: "workflow",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleGroup, RoleAssignor, RoleRadiologist),
				DefaultFor:      NewRoleSet(RoleAssignor),
			},
			{
				ID: ColReportedBy, Label: "Reported By", Category: "workflow",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleGroup, RoleAssignor, RoleTypist, RoleVerifier),
				DefaultFor:      NewRoleSet(RoleTypist, RoleVerifier),
			},
			{
				ID: ColVerifiedBy, Label: "Verified By", Category: "workflow",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleGroup, RoleVerifier),
				DefaultFor:      NewRoleSet(RoleVerifier),
			},
			{
				ID: ColReferrer, Label: "Referring Physician", Category: "patient",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleGroup, RolePhysician, RoleReceptionist),
				DefaultFor:      NewRoleSet(RolePhysician, RoleReceptionist),
			},
			{
				ID: ColBillingCode, Label: "Billing Code", Category: "billing",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleBilling),
				DefaultFor:      NewRoleSet(RoleBilling),
			},
			{
				ID: ColTAT, Label: "Turnaround", Category: "workflow",
				ApplicableRoles: NewRoleSet(RoleSuperAdmin, RoleAdmin, RoleGroup, RoleAssignor, RoleDashboardViewer),
				DefaultFor:      NewRoleSet(RoleAdmin, RoleGroup, RoleDashboardViewer),
			},
		},
		Presets: []ComboPreset{
			{
				Roles:   []Role{RoleAssignor, RoleRadiologist},
				Columns: []ColumnID{ColPatientID, ColModality, ColStatus, ColAssignedTo, ColStudyDate},
			},
			{
				Roles:   []Role{RoleRadiologist, RoleVerifier},
				Columns: []ColumnID{ColPatientID, ColPatientName, ColModality, ColReportedBy, ColVerifiedBy},
			},
			{
				Roles:   []Role{RoleReceptionist, RoleBilling},
				Columns: []ColumnID{ColPatientID, ColPatientName, ColAccession, ColLabName, ColBillingCode},
			},
		},
		Dashboards: map[Role]string{
			RoleSuperAdmin:      "/dashboard/admin",
			RoleAdmin:           "/dashboard/admin",
			RoleGroup:           "/dashboard/group",
			RoleAssignor:        "/dashboard/assignment",
			RoleRadiologist:     "/dashboard/reading",
			RoleTypist:          "/dashboard/transcription",
			RoleVerifier:        "/dashboard/verification",
			RolePhysician:       "/dashboard/referrals",
			RoleReceptionist:    "/dashboard/frontdesk",
			RoleBilling:         "/dashboard/billing",
			RoleDashboardViewer: "/dashboard/overview",
		},
		LoginRoute: "/auth/login",
	}
}
