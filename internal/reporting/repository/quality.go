package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fleetworks/fleetworks-backend/internal/reporting/domain"
	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/errors"
)

// plateLookback extends the sighting pool behind the report range so a
// repeat at the range edge still finds its prior visit.
const plateLookback = 30

// QualityRepository fetches the completed-job rows and the plate-sighting
// pool backing the quality signals. The metadata and vehicle plate columns
// are optional; absent columns yield empty signals rather than errors.
type QualityRepository struct {
	db *database.DB
}

// NewQualityRepository creates a new quality repository
func NewQualityRepository(db *database.DB) *QualityRepository {
	return &QualityRepository{db: db}
}

// jobCardMetadata is the free-form metadata payload carried on a job card.
// Only the quality-relevant keys are decoded.
type jobCardMetadata struct {
	PreviousJobNumber string `json:"previous_job_number"`
	JobCategory       string `json:"job_category"`
}

// CompletedJobs returns one row per completed assignment finishing in
// range, with the optional quality fields attached when the schema has
// them.
func (r *QualityRepository) CompletedJobs(ctx context.Context, scope domain.Scope, rng domain.Range, technicianID *string) ([]domain.CompletedJob, error) {
	caps := r.db.Capabilities()
	d := r.db.Dialect()

	plateCol := "NULL"
	if caps.JobCardVehiclePlate {
		plateCol = "jc.vehicle_plate"
	}
	metadataCol := "NULL"
	if caps.JobCardMetadata {
		metadataCol = "jc.metadata"
	}

	scopeSQL, scopeArgs := jobCardScopeFilter(caps, scope)
	query := fmt.Sprintf(`
		SELECT DISTINCT a.technician_id, jc.id AS job_card_id, jc.created_at, %s AS vehicle_plate, %s AS metadata
		FROM assignments a
		JOIN job_cards jc ON jc.id = a.job_card_id
		WHERE a.status = 'completed'
			AND EXISTS (
				SELECT 1 FROM time_logs tl
				WHERE tl.assignment_id = a.id
					AND tl.status = 'finished'
					AND tl.end_time IS NOT NULL
					AND %s BETWEEN %s AND %s
			)
			%s`,
		plateCol, metadataCol,
		d.Timestamp("tl.end_time"), d.Timestamp("?"), d.Timestamp("?"),
		scopeSQL,
	)

	args := []any{rng.StartBound(), rng.EndBound()}
	args = append(args, scopeArgs...)

	if technicianID != nil {
		query += ` AND a.technician_id = ?`
		args = append(args, *technicianID)
	}

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.QueryExecution(err)
	}
	defer rows.Close()

	var jobs []domain.CompletedJob
	for rows.Next() {
		var (
			job      domain.CompletedJob
			plate    *string
			metadata *string
		)
		if err := rows.Scan(&job.TechnicianID, &job.JobCardID, &job.CreatedAt, &plate, &metadata); err != nil {
			return nil, errors.QueryExecution(err)
		}
		if plate != nil {
			job.VehiclePlate = *plate
		}
		if metadata != nil && *metadata != "" {
			var m jobCardMetadata
			// Metadata is operator-supplied; a malformed payload just
			// contributes no quality signal.
			if err := json.Unmarshal([]byte(*metadata), &m); err == nil {
				job.PreviousJobNumber = m.PreviousJobNumber
				job.JobCategory = m.JobCategory
			}
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.QueryExecution(err)
	}
	return jobs, nil
}

// PlateSightings returns every completed job card carrying a vehicle plate,
// created between 30 days before the range start and the range end. The
// pool is deliberately unscoped: a vehicle returning to a different branch
// is still a repeat.
func (r *QualityRepository) PlateSightings(ctx context.Context, rng domain.Range) ([]domain.PlateSighting, error) {
	if !r.db.Capabilities().JobCardVehiclePlate {
		return nil, nil
	}

	d := r.db.Dialect()
	query := fmt.Sprintf(`
		SELECT jc.id, jc.vehicle_plate, jc.created_at
		FROM job_cards jc
		WHERE jc.vehicle_plate IS NOT NULL
			AND jc.vehicle_plate <> ''
			AND %s BETWEEN %s AND %s
			AND EXISTS (
				SELECT 1 FROM assignments a
				WHERE a.job_card_id = jc.id AND a.status = 'completed'
			)`,
		d.Timestamp("jc.created_at"), d.Timestamp("?"), d.Timestamp("?"),
	)

	lookback := rng.Start.AddDate(0, 0, -plateLookback).Format("2006-01-02 15:04:05")

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), lookback, rng.EndBound())
	if err != nil {
		return nil, errors.QueryExecution(err)
	}
	defer rows.Close()

	var sightings []domain.PlateSighting
	for rows.Next() {
		var s domain.PlateSighting
		if err := rows.Scan(&s.JobCardID, &s.Plate, &s.CreatedAt); err != nil {
			return nil, errors.QueryExecution(err)
		}
		sightings = append(sightings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.QueryExecution(err)
	}
	return sightings, nil
}
