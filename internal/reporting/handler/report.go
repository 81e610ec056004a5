package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fleetworks/fleetworks-backend/internal/reporting/domain"
	"github.com/fleetworks/fleetworks-backend/internal/reporting/service"
	"github.com/fleetworks/fleetworks-backend/pkg/errors"
	"github.com/fleetworks/fleetworks-backend/pkg/httputil"
	"github.com/fleetworks/fleetworks-backend/pkg/identity"
	"github.com/fleetworks/fleetworks-backend/pkg/logger"
)

// ReportHandler handles the workforce reporting endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		logger:  log,
	}
}

// RegisterRoutes mounts the reporting routes
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/technician-performance", h.TechnicianPerformance)
}

// TechnicianPerformance serves GET /reports/technician-performance
func (h *ReportHandler) TechnicianPerformance(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.CallerFromContext(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("missing caller identity"))
		return
	}

	filter, err := parseReportFilter(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	report, err := h.service.TechnicianPerformance(r.Context(), caller, filter)
	if err != nil {
		h.logger.Error().Err(err).
			Str("user_id", caller.UserID).
			Msg("technician performance report failed")
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// parseReportFilter reads the query parameters. Date strings pass through
// raw; the range normalizer owns their interpretation.
func parseReportFilter(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()

	filter := domain.Filter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	if raw := q.Get("business_unit_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.Filter{}, errors.Validation(map[string]string{
				"business_unit_id": "must be an integer",
			})
		}
		filter.BusinessUnitID = &id
	}

	if technicianID := q.Get("technician_id"); technicianID != "" {
		filter.TechnicianID = &technicianID
	}

	return filter, nil
}
