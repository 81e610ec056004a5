package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fleetworks/fleetworks-backend/pkg/config"
	"github.com/fleetworks/fleetworks-backend/pkg/logger"
)

// DB wraps sqlx.DB with the active dialect and the schema capability
// descriptor detected at connection open.
type DB struct {
	*sqlx.DB
	dialect Dialect
	caps    Capabilities
	logger  *logger.Logger
}

// New creates a new database connection against the configured backend and
// probes the schema once for the capability descriptor.
func New(ctx context.Context, cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	caps, err := DetectCapabilities(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Info().
		Str("driver", cfg.Driver).
		Bool("technician_shifts", caps.TechnicianShifts).
		Bool("weekly_schedules", caps.WeeklySchedules).
		Bool("job_card_business_unit", caps.JobCardBusinessUnit).
		Msg("database connected")

	return &DB{
		DB:      db,
		dialect: dialect,
		caps:    caps,
		logger:  log,
	}, nil
}

// NewWithDB wraps an existing sqlx connection. Used by tests and tooling
// that manage the connection themselves; capabilities are detected against
// the provided schema.
func NewWithDB(ctx context.Context, db *sqlx.DB, dialect Dialect, log *logger.Logger) (*DB, error) {
	caps, err := DetectCapabilities(ctx, db, dialect)
	if err != nil {
		return nil, err
	}

	return &DB{
		DB:      db,
		dialect: dialect,
		caps:    caps,
		logger:  log,
	}, nil
}

// Dialect returns the active SQL dialect.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Capabilities returns the schema capability descriptor.
func (db *DB) Capabilities() Capabilities {
	return db.caps
}

// Ping checks the database connection
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health returns the health status of the database
func (db *DB) Health(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "up",
		"driver": db.dialect.Name(),
	}

	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		status["status"] = "down"
		status["error"] = err.Error()
	}

	return status
}

// Transaction executes a function within a transaction
func (db *DB) Transaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
