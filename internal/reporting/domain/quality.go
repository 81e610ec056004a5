package domain

import (
	"strings"
	"time"
)

// repeatWindow is the business-policy lookback for repeat jobs: a
// completed job for the same vehicle within 30 days of an earlier one.
const repeatWindow = 30 * 24 * time.Hour

// CompletedJob is one completed job card attributed to a technician,
// carrying the optional quality-signal fields.
type CompletedJob struct {
	JobCardID         string
	TechnicianID      string
	CreatedAt         time.Time
	VehiclePlate      string
	PreviousJobNumber string
	JobCategory       string
}

// PlateSighting is a completed job card anywhere in the system, used as
// the matching pool for repeat detection. It reaches back 30 days before
// the report range so range-edge repeats are still found.
type PlateSighting struct {
	JobCardID string
	Plate     string
	CreatedAt time.Time
}

// QualityCounts are the per-technician quality signals.
type QualityCounts struct {
	ComebackJobs int
	ReworkJobs   int
	RepeatJobs   int
}

// ComputeQuality derives comeback/rework/repeat counts per technician.
// A comeback references an earlier job explicitly; a rework is a comeback
// categorized as a complaint; a repeat is a same-plate completed job
// within the 30-day window, independent of explicit linkage.
func ComputeQuality(jobs []CompletedJob, pool []PlateSighting) map[string]QualityCounts {
	sightingsByPlate := make(map[string][]PlateSighting)
	for _, s := range pool {
		plate := NormalizePlate(s.Plate)
		if plate == "" {
			continue
		}
		sightingsByPlate[plate] = append(sightingsByPlate[plate], s)
	}

	counts := make(map[string]QualityCounts)
	for _, job := range jobs {
		c := counts[job.TechnicianID]

		if job.PreviousJobNumber != "" {
			c.ComebackJobs++
			if strings.EqualFold(strings.TrimSpace(job.JobCategory), "complaint") {
				c.ReworkJobs++
			}
		}

		if plate := NormalizePlate(job.VehiclePlate); plate != "" {
			for _, prior := range sightingsByPlate[plate] {
				if prior.JobCardID == job.JobCardID {
					continue
				}
				if !prior.CreatedAt.Before(job.CreatedAt) {
					continue
				}
				if job.CreatedAt.Sub(prior.CreatedAt) <= repeatWindow {
					c.RepeatJobs++
					break
				}
			}
		}

		counts[job.TechnicianID] = c
	}

	return counts
}

// NormalizePlate uppercases and strips all whitespace so plates recorded
// with different spacing still match.
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(plate) {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
