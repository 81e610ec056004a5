package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fleetworks/fleetworks-backend/pkg/errors"
)

// requiredTables must exist in every deployment; reporting fails fast
// without them.
var requiredTables = []string{
	"business_units",
	"users",
	"technicians",
	"job_cards",
	"assignments",
	"time_logs",
}

// Capabilities describes which optional schema elements exist in the
// connected database. Deployments evolve incrementally, so optional tables
// and columns may be absent; queries degrade around the gaps instead of
// failing. Computed once at connection open, never re-probed per request.
type Capabilities struct {
	// TechnicianShifts is true when the clock-in/clock-out table exists.
	TechnicianShifts bool
	// ShiftBreakSeconds is true when technician_shifts carries the
	// break_seconds column.
	ShiftBreakSeconds bool
	// WeeklySchedules and ScheduleExceptions back the planned-shift
	// fallback.
	WeeklySchedules    bool
	ScheduleExceptions bool
	// JobCardBusinessUnit is true when job_cards has its own
	// business_unit_id column; otherwise tenant scoping falls back to the
	// creator linkage.
	JobCardBusinessUnit bool
	// JobCardMetadata and JobCardVehiclePlate back the quality KPIs.
	JobCardMetadata     bool
	JobCardVehiclePlate bool
}

// DetectCapabilities probes the live schema once and returns the
// capability descriptor. A missing required table yields a
// SCHEMA_UNAVAILABLE error naming what is absent.
func DetectCapabilities(ctx context.Context, db *sqlx.DB, d Dialect) (Capabilities, error) {
	var missing []string
	for _, table := range requiredTables {
		ok, err := tableExists(ctx, db, d, table)
		if err != nil {
			return Capabilities{}, fmt.Errorf("failed to probe table %s: %w", table, err)
		}
		if !ok {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return Capabilities{}, errors.SchemaUnavailable("workforce reporting").
			WithDetails(map[string]string{"missing_tables": strings.Join(missing, ", ")})
	}

	caps := Capabilities{}
	var err error

	if caps.TechnicianShifts, err = tableExists(ctx, db, d, "technician_shifts"); err != nil {
		return Capabilities{}, err
	}
	if caps.TechnicianShifts {
		if caps.ShiftBreakSeconds, err = columnExists(ctx, db, d, "technician_shifts", "break_seconds"); err != nil {
			return Capabilities{}, err
		}
	}
	if caps.WeeklySchedules, err = tableExists(ctx, db, d, "weekly_schedules"); err != nil {
		return Capabilities{}, err
	}
	if caps.ScheduleExceptions, err = tableExists(ctx, db, d, "schedule_exceptions"); err != nil {
		return Capabilities{}, err
	}
	if caps.JobCardBusinessUnit, err = columnExists(ctx, db, d, "job_cards", "business_unit_id"); err != nil {
		return Capabilities{}, err
	}
	if caps.JobCardMetadata, err = columnExists(ctx, db, d, "job_cards", "metadata"); err != nil {
		return Capabilities{}, err
	}
	if caps.JobCardVehiclePlate, err = columnExists(ctx, db, d, "job_cards", "vehicle_plate"); err != nil {
		return Capabilities{}, err
	}

	return caps, nil
}

func tableExists(ctx context.Context, db *sqlx.DB, d Dialect, table string) (bool, error) {
	var exists bool
	query := db.Rebind(d.TableExistsQuery())
	if err := db.GetContext(ctx, &exists, query, table); err != nil {
		return false, err
	}
	return exists, nil
}

func columnExists(ctx context.Context, db *sqlx.DB, d Dialect, table, column string) (bool, error) {
	var exists bool
	query := db.Rebind(d.ColumnExistsQuery())
	if err := db.GetContext(ctx, &exists, query, table, column); err != nil {
		return false, err
	}
	return exists, nil
}
