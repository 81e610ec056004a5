package domain

// Rollup folds technician rows into the organization-level summary.
// Percentage averages are simple means over rows, not hour-weighted.
// An empty row set yields an all-zero summary, never an error.
func Rollup(rows []TechnicianRow) Summary {
	s := Summary{TotalTechnicians: len(rows)}
	if len(rows) == 0 {
		return s
	}

	var sumEfficiency, sumUtilization, sumRevenue float64
	best, worst := rows[0].JobEfficiencyPercent, rows[0].JobEfficiencyPercent

	for _, row := range rows {
		s.TotalCompletedJobs += row.CompletedJobs
		s.TotalBilledHours += row.TotalBilledHours
		s.TotalWorkedHours += row.TotalWorkedHours
		s.ComebackJobs += row.ComebackJobs
		s.ReworkJobs += row.ReworkJobs
		s.RepeatJobs += row.RepeatJobs
		if row.MissingEstimate {
			s.MissingEstimateTechnicians++
		}

		sumEfficiency += row.JobEfficiencyPercent
		sumUtilization += row.UtilizationPercent
		sumRevenue += row.RevenueEfficiencyPercent

		if row.JobEfficiencyPercent > best {
			best = row.JobEfficiencyPercent
		}
		if row.JobEfficiencyPercent < worst {
			worst = row.JobEfficiencyPercent
		}
	}

	n := float64(len(rows))
	s.AvgJobEfficiency = round2(sumEfficiency / n)
	s.AvgUtilization = round2(sumUtilization / n)
	s.AvgRevenueEfficiency = round2(sumRevenue / n)
	s.TotalBilledHours = round2(s.TotalBilledHours)
	s.TotalWorkedHours = round2(s.TotalWorkedHours)
	s.BestEfficiency = best
	s.WorstEfficiency = worst

	return s
}
