package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fleetworks/fleetworks-backend/internal/catalog/service"
	"github.com/fleetworks/fleetworks-backend/pkg/errors"
	"github.com/fleetworks/fleetworks-backend/pkg/httputil"
	"github.com/fleetworks/fleetworks-backend/pkg/identity"
	"github.com/fleetworks/fleetworks-backend/pkg/logger"
)

// BusinessUnitHandler handles the business unit endpoints
type BusinessUnitHandler struct {
	service *service.BusinessUnitService
	logger  *logger.Logger
}

// NewBusinessUnitHandler creates a new business unit handler
func NewBusinessUnitHandler(svc *service.BusinessUnitService, log *logger.Logger) *BusinessUnitHandler {
	return &BusinessUnitHandler{
		service: svc,
		logger:  log,
	}
}

// RegisterRoutes mounts the business unit routes. Writes require the
// unrestricted role.
func (h *BusinessUnitHandler) RegisterRoutes(r chi.Router) {
	r.Route("/business-units", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(identity.RequireRole(identity.RoleSuperAdmin))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

type businessUnitRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// List lists all business units
func (h *BusinessUnitHandler) List(w http.ResponseWriter, r *http.Request) {
	units, err := h.service.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, units)
}

// Get gets a business unit by ID
func (h *BusinessUnitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	unit, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, unit)
}

// Create creates a new business unit
func (h *BusinessUnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req businessUnitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	unit, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, unit)
}

// Update renames a business unit
func (h *BusinessUnitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req businessUnitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	unit, err := h.service.Update(r.Context(), id, req.Name)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, unit)
}

// Delete deletes a business unit
func (h *BusinessUnitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errors.Validation(map[string]string{"id": "must be an integer"})
	}
	return id, nil
}
