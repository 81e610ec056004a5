package repository

import (
	"context"
	"fmt"

	"github.com/fleetworks/fleetworks-backend/internal/reporting/domain"
	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/errors"
)

// TechnicianRef is one technician record matching the report scope, before
// any aggregates are attached.
type TechnicianRef struct {
	ID               string  `db:"id"`
	Name             string  `db:"name"`
	EmployeeCode     string  `db:"employee_code"`
	BusinessUnitID   *int64  `db:"business_unit_id"`
	BusinessUnitName *string `db:"business_unit_name"`
}

// JobCounts holds the distinct job-card counts for one technician.
type JobCounts struct {
	TechnicianID  string `db:"technician_id"`
	CompletedJobs int    `db:"completed_jobs"`
	ActiveJobs    int    `db:"active_jobs"`
}

// MetricsRepository executes the per-technician aggregate queries. All
// queries are written with "?" placeholders and rebound for the active
// backend; dialect-specific expressions come from the connection's Dialect.
type MetricsRepository struct {
	db *database.DB
}

// NewMetricsRepository creates a new metrics repository
func NewMetricsRepository(db *database.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// TechniciansInScope returns every technician visible under the scope,
// optionally narrowed to a single technician id. A technician with no
// activity at all is still returned; missing aggregates default to zero
// during the merge.
func (r *MetricsRepository) TechniciansInScope(ctx context.Context, scope domain.Scope, technicianID *string) ([]TechnicianRef, error) {
	if scope.Empty {
		return nil, nil
	}

	query := `
		SELECT t.id, t.name, t.employee_code, t.business_unit_id, bu.name AS business_unit_name
		FROM technicians t
		LEFT JOIN business_units bu ON bu.id = t.business_unit_id
		WHERE 1=1`
	var args []any

	if !scope.Unrestricted {
		query += ` AND (t.business_unit_id = ? OR t.business_unit_id IS NULL)`
		args = append(args, scope.BusinessUnitID)
	}
	if technicianID != nil {
		query += ` AND t.id = ?`
		args = append(args, *technicianID)
	}
	query += ` ORDER BY t.name, t.id`

	var refs []TechnicianRef
	if err := r.db.SelectContext(ctx, &refs, r.db.Rebind(query), args...); err != nil {
		return nil, errors.QueryExecution(err)
	}
	return refs, nil
}

// TechnicianExists reports whether a technician id exists at all,
// regardless of scope. Used to distinguish "not found" from "not visible".
func (r *MetricsRepository) TechnicianExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM technicians WHERE id = ?)`)
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, errors.QueryExecution(err)
	}
	return exists, nil
}

// JobCountsByTechnician counts distinct job cards per technician over the
// range, via non-cancelled assignments. Completed work is anchored to when
// it finished (a finished time log inside the range); open work has no
// finish date, so it is anchored to job-card creation instead.
func (r *MetricsRepository) JobCountsByTechnician(ctx context.Context, scope domain.Scope, rng domain.Range) (map[string]JobCounts, error) {
	d := r.db.Dialect()

	scopeSQL, scopeArgs := jobCardScopeFilter(r.db.Capabilities(), scope)
	query := fmt.Sprintf(`
		SELECT a.technician_id,
			COUNT(DISTINCT CASE WHEN a.status = 'completed' THEN a.job_card_id END) AS completed_jobs,
			COUNT(DISTINCT CASE WHEN a.status <> 'completed' THEN a.job_card_id END) AS active_jobs
		FROM assignments a
		JOIN job_cards jc ON jc.id = a.job_card_id
		WHERE a.status <> 'cancelled'
			AND (
				(a.status = 'completed' AND EXISTS (
					SELECT 1 FROM time_logs tl
					WHERE tl.assignment_id = a.id
						AND tl.status = 'finished'
						AND tl.end_time IS NOT NULL
						AND %s BETWEEN %s AND %s
				))
				OR
				(a.status <> 'completed' AND %s BETWEEN %s AND %s)
			)
			%s
		GROUP BY a.technician_id`,
		d.Timestamp("tl.end_time"), d.Timestamp("?"), d.Timestamp("?"),
		d.Timestamp("jc.created_at"), d.Timestamp("?"), d.Timestamp("?"),
		scopeSQL,
	)

	args := []any{rng.StartBound(), rng.EndBound(), rng.StartBound(), rng.EndBound()}
	args = append(args, scopeArgs...)

	var rows []JobCounts
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.QueryExecution(err)
	}

	counts := make(map[string]JobCounts, len(rows))
	for _, row := range rows {
		counts[row.TechnicianID] = row
	}
	return counts, nil
}

// BilledHoursByTechnician sums estimated_hours over distinct job cards with
// a completed assignment finishing in range. This is a cost figure from the
// estimate, not measured time.
func (r *MetricsRepository) BilledHoursByTechnician(ctx context.Context, scope domain.Scope, rng domain.Range) (map[string]float64, error) {
	d := r.db.Dialect()

	scopeSQL, scopeArgs := jobCardScopeFilter(r.db.Capabilities(), scope)
	query := fmt.Sprintf(`
		SELECT technician_id, COALESCE(SUM(estimated_hours), 0) AS billed_hours
		FROM (
			SELECT DISTINCT a.technician_id, jc.id AS job_card_id, COALESCE(jc.estimated_hours, 0) AS estimated_hours
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
				%s
		) billed
		GROUP BY technician_id`,
		d.Timestamp("tl.end_time"), d.Timestamp("?"), d.Timestamp("?"),
		scopeSQL,
	)

	args := []any{rng.StartBound(), rng.EndBound()}
	args = append(args, scopeArgs...)

	return r.selectHours(ctx, query, args, 1)
}

// WorkedHoursByTechnician sums measured time-log durations for finished
// logs ending in range. Stored durations go stale, so each log counts as
// the larger of the stored figure and the timestamp difference. Logs tied
// to a cancelled assignment are excluded; unlinked logs still count.
func (r *MetricsRepository) WorkedHoursByTechnician(ctx context.Context, scope domain.Scope, rng domain.Range) (map[string]float64, error) {
	d := r.db.Dialect()

	scopeSQL, scopeArgs := jobCardScopeFilter(r.db.Capabilities(), scope)
	query := fmt.Sprintf(`
		SELECT tl.technician_id,
			COALESCE(SUM(%s), 0) AS worked_seconds
		FROM time_logs tl
		JOIN job_cards jc ON jc.id = tl.job_card_id
		LEFT JOIN assignments a ON a.id = tl.assignment_id
		WHERE tl.status = 'finished'
			AND tl.end_time IS NOT NULL
			AND (a.id IS NULL OR a.status <> 'cancelled')
			AND %s BETWEEN %s AND %s
			%s
		GROUP BY tl.technician_id`,
		d.Greatest("COALESCE(tl.duration_seconds, 0)", d.EpochDiff("tl.end_time", "tl.start_time")),
		d.Timestamp("tl.end_time"), d.Timestamp("?"), d.Timestamp("?"),
		scopeSQL,
	)

	args := []any{rng.StartBound(), rng.EndBound()}
	args = append(args, scopeArgs...)

	return r.selectHours(ctx, query, args, 3600)
}

// MeasuredShiftHoursByTechnician sums clock-in/clock-out spans clipped to
// the range, less recorded breaks, clamped to zero per shift. A still-open
// shift counts up to the current time. Returns an empty map when the
// deployment has no shift table.
func (r *MetricsRepository) MeasuredShiftHoursByTechnician(ctx context.Context, rng domain.Range) (map[string]float64, error) {
	caps := r.db.Capabilities()
	if !caps.TechnicianShifts {
		return map[string]float64{}, nil
	}

	d := r.db.Dialect()

	breakExpr := "0"
	if caps.ShiftBreakSeconds {
		breakExpr = "COALESCE(s.break_seconds, 0)"
	}

	clockOut := d.Timestamp("COALESCE(s.clock_out_time, CURRENT_TIMESTAMP)")
	clockIn := d.Timestamp("s.clock_in_time")
	overlap := d.EpochDiff(
		d.Least(clockOut, d.Timestamp("?")),
		d.Greatest(clockIn, d.Timestamp("?")),
	)

	query := fmt.Sprintf(`
		SELECT s.technician_id,
			COALESCE(SUM(%s), 0) AS shift_seconds
		FROM technician_shifts s
		WHERE %s <= %s
			AND %s >= %s
		GROUP BY s.technician_id`,
		d.Greatest(fmt.Sprintf("(%s) - %s", overlap, breakExpr), "0"),
		clockIn, d.Timestamp("?"),
		clockOut, d.Timestamp("?"),
	)

	args := []any{rng.EndBound(), rng.StartBound(), rng.EndBound(), rng.StartBound()}

	return r.selectHours(ctx, query, args, 3600)
}

// jobCardScopeFilter renders the tenant filter for queries rooted at
// job_cards (aliased jc). When the job card carries its own business unit
// column, unclassified rows pass through; otherwise scope falls back to the
// creator's business unit, with a missing creator link also passing. An
// empty scope matches nothing.
func jobCardScopeFilter(caps database.Capabilities, scope domain.Scope) (string, []any) {
	if scope.Unrestricted {
		return "", nil
	}
	if scope.Empty {
		return " AND 1=0", nil
	}

	if caps.JobCardBusinessUnit {
		return ` AND (jc.business_unit_id = ? OR jc.business_unit_id IS NULL)`, []any{scope.BusinessUnitID}
	}

	return ` AND (jc.created_by IS NULL OR EXISTS (
				SELECT 1 FROM users cu
				WHERE cu.id = jc.created_by
					AND (cu.business_unit_id = ? OR cu.business_unit_id IS NULL)
			))`, []any{scope.BusinessUnitID}
}

// selectHours runs a two-column (technician_id, numeric) aggregate query
// and returns the values divided by the given unit (1 for hours as stored,
// 3600 for seconds).
func (r *MetricsRepository) selectHours(ctx context.Context, query string, args []any, unit float64) (map[string]float64, error) {
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.QueryExecution(err)
	}
	defer rows.Close()

	result := make(map[string]float64)
	for rows.Next() {
		var technicianID string
		var value float64
		if err := rows.Scan(&technicianID, &value); err != nil {
			return nil, errors.QueryExecution(err)
		}
		result[technicianID] = value / unit
	}
	if err := rows.Err(); err != nil {
		return nil, errors.QueryExecution(err)
	}
	return result, nil
}
