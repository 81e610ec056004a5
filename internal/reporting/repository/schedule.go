package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetworks/fleetworks-backend/internal/reporting/domain"
	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/errors"
)

// dayString scans a calendar day regardless of whether the backend hands
// back text or a native date value.
type dayString string

func (d *dayString) Scan(v any) error {
	switch t := v.(type) {
	case nil:
		*d = ""
	case string:
		*d = dayString(t)
	case []byte:
		*d = dayString(t)
	case time.Time:
		*d = dayString(t.Format("2006-01-02"))
	default:
		return fmt.Errorf("cannot scan %T into day string", v)
	}
	return nil
}

// ScheduleRepository loads the weekly templates and day exceptions backing
// the planned-shift fallback. Both tables are optional; a deployment
// without them simply never produces planned hours.
type ScheduleRepository struct {
	db *database.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// TemplatesByTechnician returns every weekly schedule block grouped by
// technician id.
func (r *ScheduleRepository) TemplatesByTechnician(ctx context.Context) (map[string][]domain.ScheduleTemplate, error) {
	if !r.db.Capabilities().WeeklySchedules {
		return map[string][]domain.ScheduleTemplate{}, nil
	}

	query := `
		SELECT technician_id, weekday, start_time, end_time
		FROM weekly_schedules
		ORDER BY technician_id, weekday, start_time`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.QueryExecution(err)
	}
	defer rows.Close()

	templates := make(map[string][]domain.ScheduleTemplate)
	for rows.Next() {
		var technicianID string
		var tpl domain.ScheduleTemplate
		if err := rows.Scan(&technicianID, &tpl.Weekday, &tpl.StartTime, &tpl.EndTime); err != nil {
			return nil, errors.QueryExecution(err)
		}
		templates[technicianID] = append(templates[technicianID], tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.QueryExecution(err)
	}
	return templates, nil
}

// ExceptionsByTechnician returns the day-specific overrides falling inside
// the range, grouped by technician id.
func (r *ScheduleRepository) ExceptionsByTechnician(ctx context.Context, rng domain.Range) (map[string][]domain.ScheduleException, error) {
	if !r.db.Capabilities().ScheduleExceptions {
		return map[string][]domain.ScheduleException{}, nil
	}

	query := r.db.Rebind(`
		SELECT technician_id, exception_date, is_working, start_time, end_time
		FROM schedule_exceptions
		WHERE exception_date BETWEEN ? AND ?
		ORDER BY technician_id, exception_date`)

	rows, err := r.db.QueryxContext(ctx, query, rng.StartDay, rng.EndDay)
	if err != nil {
		return nil, errors.QueryExecution(err)
	}
	defer rows.Close()

	exceptions := make(map[string][]domain.ScheduleException)
	for rows.Next() {
		var technicianID string
		var date dayString
		var exc domain.ScheduleException
		if err := rows.Scan(&technicianID, &date, &exc.IsWorking, &exc.StartTime, &exc.EndTime); err != nil {
			return nil, errors.QueryExecution(err)
		}
		exc.Date = string(date)
		exceptions[technicianID] = append(exceptions[technicianID], exc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.QueryExecution(err)
	}
	return exceptions, nil
}
