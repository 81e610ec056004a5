package domain

import "math"

// ComputeKPIs fills the derived ratio KPIs on a row from its aggregates.
// Every divisor is guarded: a zero denominator yields 0, never Inf/NaN.
// missing_estimate is a data-quality flag, not a performance failure:
// completed work exists but carries no cost estimate.
func ComputeKPIs(row *TechnicianRow) {
	billed := row.TotalBilledHours
	worked := row.TotalWorkedHours
	shift := row.TotalShiftHours
	completed := row.CompletedJobs

	if worked > 0 {
		row.JobEfficiencyPercent = round2(billed / worked * 100)
	}
	if shift > 0 {
		row.UtilizationPercent = round2(worked / shift * 100)
		row.RevenueEfficiencyPercent = round2(billed / shift * 100)
	}
	row.MissingEstimate = billed == 0 && completed > 0
	if completed > 0 {
		row.AvgHoursPerJob = round2(worked / float64(completed))
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
