package domain

// ShiftSource records where a technician's effective shift hours came
// from, so a "no data" technician is distinguishable from one with no
// scheduled hours.
type ShiftSource string

const (
	ShiftSourceActual  ShiftSource = "actual"
	ShiftSourcePlanned ShiftSource = "planned"
	ShiftSourceNone    ShiftSource = "none"
)

// Filter carries the raw report request parameters.
type Filter struct {
	BusinessUnitID *int64
	TechnicianID   *string
	StartDate      string
	EndDate        string
}

// TechnicianRow is one technician's slice of the performance report.
type TechnicianRow struct {
	TechnicianID     string  `json:"technician_id"`
	TechnicianName   string  `json:"technician_name"`
	EmployeeCode     string  `json:"employee_code"`
	BusinessUnitID   *int64  `json:"business_unit_id"`
	BusinessUnitName *string `json:"business_unit_name"`

	TotalJobs     int `json:"total_jobs"`
	CompletedJobs int `json:"completed_jobs"`
	ActiveJobs    int `json:"active_jobs"`

	TotalBilledHours float64 `json:"total_billed_hours"`
	TotalWorkedHours float64 `json:"total_worked_hours"`

	TotalShiftHours        float64     `json:"total_shift_hours"`
	TotalShiftHoursActual  float64     `json:"total_shift_hours_actual"`
	TotalShiftHoursPlanned float64     `json:"total_shift_hours_planned"`
	TotalShiftHoursSource  ShiftSource `json:"total_shift_hours_source"`

	JobEfficiencyPercent     float64 `json:"job_efficiency_percent"`
	UtilizationPercent       float64 `json:"utilization_percent"`
	RevenueEfficiencyPercent float64 `json:"revenue_efficiency_percent"`
	MissingEstimate          bool    `json:"missing_estimate"`
	AvgHoursPerJob           float64 `json:"avg_hours_per_job"`

	ComebackJobs int `json:"comeback_jobs"`
	ReworkJobs   int `json:"rework_jobs"`
	RepeatJobs   int `json:"repeat_jobs"`
}

// Summary is the organization-level fold of the technician rows.
type Summary struct {
	TotalTechnicians           int     `json:"total_technicians"`
	TotalCompletedJobs         int     `json:"total_completed_jobs"`
	TotalBilledHours           float64 `json:"total_billed_hours"`
	TotalWorkedHours           float64 `json:"total_worked_hours"`
	AvgJobEfficiency           float64 `json:"avg_job_efficiency"`
	AvgUtilization             float64 `json:"avg_utilization"`
	AvgRevenueEfficiency       float64 `json:"avg_revenue_efficiency"`
	MissingEstimateTechnicians int     `json:"missing_estimate_technicians"`
	ComebackJobs               int     `json:"comeback_jobs"`
	ReworkJobs                 int     `json:"rework_jobs"`
	RepeatJobs                 int     `json:"repeat_jobs"`
	BestEfficiency             float64 `json:"best_efficiency"`
	WorstEfficiency            float64 `json:"worst_efficiency"`
}

// Report is the full response document.
type Report struct {
	Data    []TechnicianRow `json:"data"`
	Summary Summary         `json:"summary"`
}
