package service

import (
	"context"
	"strings"

	"github.com/fleetworks/fleetworks-backend/internal/catalog/events"
	"github.com/fleetworks/fleetworks-backend/internal/catalog/repository"
	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/errors"
	"github.com/fleetworks/fleetworks-backend/pkg/logger"
)

// BusinessUnitService manages the business unit reference data. Reads are
// open to any authenticated caller; the handlers guard writes behind the
// unrestricted role.
type BusinessUnitService struct {
	repo   *repository.BusinessUnitRepository
	events *events.CatalogEventPublisher
	logger *logger.Logger
}

// NewBusinessUnitService creates a new business unit service
func NewBusinessUnitService(db *database.DB, publisher *events.CatalogEventPublisher, log *logger.Logger) *BusinessUnitService {
	return &BusinessUnitService{
		repo:   repository.NewBusinessUnitRepository(db),
		events: publisher,
		logger: log.WithComponent("business-unit-service"),
	}
}

// List returns all business units
func (s *BusinessUnitService) List(ctx context.Context) ([]repository.BusinessUnit, error) {
	return s.repo.List(ctx)
}

// GetByID returns one business unit
func (s *BusinessUnitService) GetByID(ctx context.Context, id int64) (*repository.BusinessUnit, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a business unit with a unique name
func (s *BusinessUnitService) Create(ctx context.Context, name string) (*repository.BusinessUnit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation(map[string]string{"name": "this field is required"})
	}

	taken, err := s.repo.NameExists(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.Conflict("a business unit with this name already exists")
	}

	unit := &repository.BusinessUnit{Name: name}
	if err := s.repo.Create(ctx, unit); err != nil {
		return nil, err
	}

	if err := s.events.BusinessUnitCreated(ctx, unit.ID, unit.Name); err != nil {
		s.logger.Error().Err(err).Int64("business_unit_id", unit.ID).Msg("failed to publish created event")
	}
	return unit, nil
}

// Update renames a business unit
func (s *BusinessUnitService) Update(ctx context.Context, id int64, name string) (*repository.BusinessUnit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation(map[string]string{"name": "this field is required"})
	}

	taken, err := s.repo.NameExists(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.Conflict("a business unit with this name already exists")
	}

	unit := &repository.BusinessUnit{ID: id, Name: name}
	if err := s.repo.Update(ctx, unit); err != nil {
		return nil, err
	}

	if err := s.events.BusinessUnitUpdated(ctx, id, name); err != nil {
		s.logger.Error().Err(err).Int64("business_unit_id", id).Msg("failed to publish updated event")
	}
	return unit, nil
}

// Delete removes an unreferenced business unit
func (s *BusinessUnitService) Delete(ctx context.Context, id int64) error {
	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return errors.Conflict("business unit still has assigned staff")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.events.BusinessUnitDeleted(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("business_unit_id", id).Msg("failed to publish deleted event")
	}
	return nil
}
