package service

import (
	"context"
	"time"

	"github.com/fleetworks/fleetworks-backend/internal/reporting/domain"
	"github.com/fleetworks/fleetworks-backend/internal/reporting/events"
	"github.com/fleetworks/fleetworks-backend/internal/reporting/repository"
	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/errors"
	"github.com/fleetworks/fleetworks-backend/pkg/identity"
	"github.com/fleetworks/fleetworks-backend/pkg/logger"
	"github.com/fleetworks/fleetworks-backend/pkg/messaging"
)

// ReportService runs the technician performance pipeline: normalize the
// range, resolve the caller's scope, execute the aggregate queries, apply
// the planned-shift fallback, then compute KPIs and the summary. The whole
// report fails together; partial KPI math on partial data would mislead.
type ReportService struct {
	metrics  *repository.MetricsRepository
	schedule *repository.ScheduleRepository
	quality  *repository.QualityRepository
	events   *events.ReportEventPublisher
	clock    func() time.Time
	logger   *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(db *database.DB, publisher *events.ReportEventPublisher, log *logger.Logger) *ReportService {
	return &ReportService{
		metrics:  repository.NewMetricsRepository(db),
		schedule: repository.NewScheduleRepository(db),
		quality:  repository.NewQualityRepository(db),
		events:   publisher,
		clock:    time.Now,
		logger:   log.WithComponent("report-service"),
	}
}

// WithClock overrides the time source. Open-ended ranges default their end
// to this clock.
func (s *ReportService) WithClock(clock func() time.Time) *ReportService {
	s.clock = clock
	return s
}

// TechnicianPerformance produces the workforce report for the caller's
// effective scope over the requested range.
func (s *ReportService) TechnicianPerformance(ctx context.Context, caller identity.Caller, filter domain.Filter) (*domain.Report, error) {
	rng, err := domain.NormalizeRange(filter.StartDate, filter.EndDate, s.clock())
	if err != nil {
		return nil, err
	}
	if rng.Ambiguous {
		s.logger.Warn().
			Str("start_date", filter.StartDate).
			Str("end_date", filter.EndDate).
			Msg("slash date resolved month-first; input was ambiguous")
	}

	scope := domain.ResolveScope(caller, filter.BusinessUnitID)

	refs, err := s.techniciansForRequest(ctx, scope, filter.TechnicianID)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		report := &domain.Report{Data: []domain.TechnicianRow{}, Summary: domain.Rollup(nil)}
		s.publishGenerated(ctx, caller, filter, rng, 0)
		return report, nil
	}

	rows, err := s.buildRows(ctx, scope, rng, refs, filter.TechnicianID)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{Data: rows, Summary: domain.Rollup(rows)}
	s.publishGenerated(ctx, caller, filter, rng, len(rows))
	return report, nil
}

// techniciansForRequest resolves the technician set, distinguishing "does
// not exist" from "exists but outside your scope" when one technician was
// explicitly targeted. An explicit target never gets an empty 200.
func (s *ReportService) techniciansForRequest(ctx context.Context, scope domain.Scope, technicianID *string) ([]repository.TechnicianRef, error) {
	if technicianID == nil {
		return s.metrics.TechniciansInScope(ctx, scope, nil)
	}

	exists, err := s.metrics.TechnicianExists(ctx, *technicianID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NotFound("technician")
	}

	refs, err := s.metrics.TechniciansInScope(ctx, scope, technicianID)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, errors.Forbidden("technician is outside your business unit")
	}
	return refs, nil
}

func (s *ReportService) buildRows(ctx context.Context, scope domain.Scope, rng domain.Range, refs []repository.TechnicianRef, technicianID *string) ([]domain.TechnicianRow, error) {
	jobCounts, err := s.metrics.JobCountsByTechnician(ctx, scope, rng)
	if err != nil {
		return nil, err
	}
	billed, err := s.metrics.BilledHoursByTechnician(ctx, scope, rng)
	if err != nil {
		return nil, err
	}
	worked, err := s.metrics.WorkedHoursByTechnician(ctx, scope, rng)
	if err != nil {
		return nil, err
	}
	measured, err := s.metrics.MeasuredShiftHoursByTechnician(ctx, rng)
	if err != nil {
		return nil, err
	}
	templates, err := s.schedule.TemplatesByTechnician(ctx)
	if err != nil {
		return nil, err
	}
	exceptions, err := s.schedule.ExceptionsByTechnician(ctx, rng)
	if err != nil {
		return nil, err
	}
	qualityCounts, err := s.qualityByTechnician(ctx, scope, rng, technicianID)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TechnicianRow, 0, len(refs))
	for _, ref := range refs {
		row := domain.TechnicianRow{
			TechnicianID:     ref.ID,
			TechnicianName:   ref.Name,
			EmployeeCode:     ref.EmployeeCode,
			BusinessUnitID:   ref.BusinessUnitID,
			BusinessUnitName: ref.BusinessUnitName,
		}

		counts := jobCounts[ref.ID]
		row.CompletedJobs = counts.CompletedJobs
		row.ActiveJobs = counts.ActiveJobs
		row.TotalJobs = counts.CompletedJobs + counts.ActiveJobs

		row.TotalBilledHours = billed[ref.ID]
		row.TotalWorkedHours = worked[ref.ID]

		s.resolveShiftHours(&row, measured[ref.ID], rng, templates[ref.ID], exceptions[ref.ID])

		q := qualityCounts[ref.ID]
		row.ComebackJobs = q.ComebackJobs
		row.ReworkJobs = q.ReworkJobs
		row.RepeatJobs = q.RepeatJobs

		domain.ComputeKPIs(&row)
		rows = append(rows, row)
	}

	return rows, nil
}

// resolveShiftHours picks the effective shift figure. Zero measured hours
// means the time clock was not used, so the weekly schedule stands in; a
// technician with neither is marked "none" so tests and consumers can tell
// "no data" from "no scheduled hours".
func (s *ReportService) resolveShiftHours(row *domain.TechnicianRow, measured float64, rng domain.Range, templates []domain.ScheduleTemplate, exceptions []domain.ScheduleException) {
	row.TotalShiftHoursActual = measured

	if measured > 0 {
		row.TotalShiftHours = measured
		row.TotalShiftHoursSource = domain.ShiftSourceActual
		return
	}

	planned := domain.PlannedHours(rng, templates, exceptions)
	row.TotalShiftHoursPlanned = planned
	if planned > 0 {
		row.TotalShiftHours = planned
		row.TotalShiftHoursSource = domain.ShiftSourcePlanned
		return
	}

	row.TotalShiftHoursSource = domain.ShiftSourceNone
}

func (s *ReportService) qualityByTechnician(ctx context.Context, scope domain.Scope, rng domain.Range, technicianID *string) (map[string]domain.QualityCounts, error) {
	jobs, err := s.quality.CompletedJobs(ctx, scope, rng, technicianID)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return map[string]domain.QualityCounts{}, nil
	}

	pool, err := s.quality.PlateSightings(ctx, rng)
	if err != nil {
		return nil, err
	}

	return domain.ComputeQuality(jobs, pool), nil
}

// publishGenerated is best effort; a broker outage never fails a report.
func (s *ReportService) publishGenerated(ctx context.Context, caller identity.Caller, filter domain.Filter, rng domain.Range, technicianCount int) {
	err := s.events.ReportGenerated(ctx, messaging.ReportGeneratedEvent{
		Report:          "technician-performance",
		RequestedBy:     caller.UserID,
		BusinessUnitID:  filter.BusinessUnitID,
		TechnicianID:    filter.TechnicianID,
		StartDay:        rng.StartDay,
		EndDay:          rng.EndDay,
		TechnicianCount: technicianCount,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to publish report.generated event")
	}
}
