package repository

import (
	"context"
	"database/sql"

	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/errors"
)

// BusinessUnit is one workshop branch/tenant.
type BusinessUnit struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// BusinessUnitRepository handles business unit persistence
type BusinessUnitRepository struct {
	db *database.DB
}

// NewBusinessUnitRepository creates a new business unit repository
func NewBusinessUnitRepository(db *database.DB) *BusinessUnitRepository {
	return &BusinessUnitRepository{db: db}
}

// List returns all business units ordered by name
func (r *BusinessUnitRepository) List(ctx context.Context) ([]BusinessUnit, error) {
	var units []BusinessUnit
	query := `SELECT id, name FROM business_units ORDER BY name, id`
	if err := r.db.SelectContext(ctx, &units, query); err != nil {
		return nil, errors.QueryExecution(err)
	}
	return units, nil
}

// GetByID returns one business unit
func (r *BusinessUnitRepository) GetByID(ctx context.Context, id int64) (*BusinessUnit, error) {
	var unit BusinessUnit
	query := r.db.Rebind(`SELECT id, name FROM business_units WHERE id = ?`)
	if err := r.db.GetContext(ctx, &unit, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("business unit")
		}
		return nil, errors.QueryExecution(err)
	}
	return &unit, nil
}

// NameExists reports whether another unit already uses the name. excludeID
// skips the unit being renamed.
func (r *BusinessUnitRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM business_units WHERE name = ? AND id <> ?)`)
	if err := r.db.GetContext(ctx, &exists, query, name, excludeID); err != nil {
		return false, errors.QueryExecution(err)
	}
	return exists, nil
}

// Create inserts a new business unit and fills its generated id.
func (r *BusinessUnitRepository) Create(ctx context.Context, unit *BusinessUnit) error {
	query := r.db.Rebind(`INSERT INTO business_units (name) VALUES (?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, query, unit.Name).Scan(&unit.ID); err != nil {
		return errors.QueryExecution(err)
	}
	return nil
}

// Update renames a business unit
func (r *BusinessUnitRepository) Update(ctx context.Context, unit *BusinessUnit) error {
	query := r.db.Rebind(`UPDATE business_units SET name = ? WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, unit.Name, unit.ID)
	if err != nil {
		return errors.QueryExecution(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.QueryExecution(err)
	}
	if rows == 0 {
		return errors.NotFound("business unit")
	}
	return nil
}

// Delete removes a business unit
func (r *BusinessUnitRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind(`DELETE FROM business_units WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.QueryExecution(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.QueryExecution(err)
	}
	if rows == 0 {
		return errors.NotFound("business unit")
	}
	return nil
}

// InUse reports whether any technician or user still references the unit.
func (r *BusinessUnitRepository) InUse(ctx context.Context, id int64) (bool, error) {
	var inUse bool
	query := r.db.Rebind(`SELECT EXISTS (
		SELECT 1 FROM technicians WHERE business_unit_id = ?
		UNION
		SELECT 1 FROM users WHERE business_unit_id = ?
	)`)
	if err := r.db.GetContext(ctx, &inUse, query, id, id); err != nil {
		return false, errors.QueryExecution(err)
	}
	return inUse, nil
}
