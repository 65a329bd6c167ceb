package core

// AddPlanRequest carries the raw console input for a batch of plan entries.
// Fields are normalized by Service.AddPlan.
type AddPlanRequest struct {
	CareerCode     string
	Semester       string // 1-10, leading zero optional
	SubjectCodes   string // comma-separated
	EnrollmentDate string // YYYY-MM-DD, DD/MM/YYYY, empty or NULL
	WithdrawalDate string
}

// AddPlanResult reports what an add inserted.
type AddPlanResult struct {
	Inserted int
	Accepted []string // subject codes inserted, in input order
	Rejected []string // subject codes not found in materias
}

// EditPlanRequest carries the raw console input for editing one plan entry.
// An empty Semester keeps the stored value. Dates are always replaced;
// empty or NULL clears them.
type EditPlanRequest struct {
	ID             int64
	Semester       string
	EnrollmentDate string
	WithdrawalDate string
}
