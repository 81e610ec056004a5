package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollup_Empty(t *testing.T) {
	s := Rollup(nil)

	assert.Equal(t, 0, s.TotalTechnicians)
	assert.Equal(t, 0.0, s.AvgJobEfficiency)
	assert.Equal(t, 0.0, s.BestEfficiency)
	assert.Equal(t, 0.0, s.WorstEfficiency)
}

func TestRollup_AveragesAndExtremes(t *testing.T) {
	rows := []TechnicianRow{
		{
			CompletedJobs:            3,
			TotalBilledHours:         10,
			TotalWorkedHours:         8,
			JobEfficiencyPercent:     125,
			UtilizationPercent:       80,
			RevenueEfficiencyPercent: 100,
			ComebackJobs:             1,
			ReworkJobs:               1,
		},
		{
			CompletedJobs:            1,
			TotalBilledHours:         2,
			TotalWorkedHours:         4,
			JobEfficiencyPercent:     50,
			UtilizationPercent:       40,
			RevenueEfficiencyPercent: 20,
			RepeatJobs:               2,
			MissingEstimate:          true,
		},
	}

	s := Rollup(rows)

	assert.Equal(t, 2, s.TotalTechnicians)
	assert.Equal(t, 4, s.TotalCompletedJobs)
	assert.Equal(t, 12.0, s.TotalBilledHours)
	assert.Equal(t, 12.0, s.TotalWorkedHours)
	// Simple means over rows, not weighted by hours.
	assert.Equal(t, 87.5, s.AvgJobEfficiency)
	assert.Equal(t, 60.0, s.AvgUtilization)
	assert.Equal(t, 60.0, s.AvgRevenueEfficiency)
	assert.Equal(t, 1, s.MissingEstimateTechnicians)
	assert.Equal(t, 1, s.ComebackJobs)
	assert.Equal(t, 1, s.ReworkJobs)
	assert.Equal(t, 2, s.RepeatJobs)
	assert.Equal(t, 125.0, s.BestEfficiency)
	assert.Equal(t, 50.0, s.WorstEfficiency)
}

func TestRollup_SingleRow(t *testing.T) {
	rows := []TechnicianRow{{JobEfficiencyPercent: 75}}

	s := Rollup(rows)

	assert.Equal(t, 75.0, s.BestEfficiency)
	assert.Equal(t, 75.0, s.WorstEfficiency)
	assert.Equal(t, 75.0, s.AvgJobEfficiency)
}
