package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeKPIs_FullRow(t *testing.T) {
	row := &TechnicianRow{
		TotalBilledHours: 4,
		TotalWorkedHours: 3.5,
		TotalShiftHours:  8,
		CompletedJobs:    1,
	}

	ComputeKPIs(row)

	assert.Equal(t, 114.29, row.JobEfficiencyPercent)
	assert.Equal(t, 43.75, row.UtilizationPercent)
	assert.Equal(t, 50.0, row.RevenueEfficiencyPercent)
	assert.False(t, row.MissingEstimate)
	assert.Equal(t, 3.5, row.AvgHoursPerJob)
}

// A zero denominator always yields 0, never Inf or NaN.
func TestComputeKPIs_ZeroDenominators(t *testing.T) {
	row := &TechnicianRow{
		TotalBilledHours: 6,
		TotalWorkedHours: 0,
		TotalShiftHours:  0,
		CompletedJobs:    2,
	}

	ComputeKPIs(row)

	assert.Equal(t, 0.0, row.JobEfficiencyPercent)
	assert.Equal(t, 0.0, row.UtilizationPercent)
	assert.Equal(t, 0.0, row.RevenueEfficiencyPercent)
	assert.Equal(t, 0.0, row.AvgHoursPerJob)
}

func TestComputeKPIs_MissingEstimateFlag(t *testing.T) {
	// Completed work with no cost estimate: data-quality flag, not a
	// performance failure.
	row := &TechnicianRow{
		TotalBilledHours: 0,
		TotalWorkedHours: 5,
		CompletedJobs:    3,
	}

	ComputeKPIs(row)

	assert.True(t, row.MissingEstimate)
	assert.Equal(t, 0.0, row.JobEfficiencyPercent)

	// No completed jobs means no flag even with zero billed hours.
	row = &TechnicianRow{TotalWorkedHours: 5}
	ComputeKPIs(row)
	assert.False(t, row.MissingEstimate)
}

func TestComputeKPIs_ZeroActivity(t *testing.T) {
	row := &TechnicianRow{}

	ComputeKPIs(row)

	assert.Equal(t, 0.0, row.JobEfficiencyPercent)
	assert.Equal(t, 0.0, row.UtilizationPercent)
	assert.Equal(t, 0.0, row.RevenueEfficiencyPercent)
	assert.False(t, row.MissingEstimate)
}
