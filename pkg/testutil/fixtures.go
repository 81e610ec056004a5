package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// schemaSpec controls which optional tables and columns the fixture
// creates, mirroring the schema drift the engine must tolerate across
// deployments.
type schemaSpec struct {
	technicianShifts    bool
	shiftBreakSeconds   bool
	weeklySchedules     bool
	scheduleExceptions  bool
	jobCardBusinessUnit bool
	jobCardMetadata     bool
	jobCardVehiclePlate bool
}

// SchemaOption tailors the fixture schema.
type SchemaOption func(*schemaSpec)

// WithoutTechnicianShifts omits the clock event table.
func WithoutTechnicianShifts() SchemaOption {
	return func(s *schemaSpec) { s.technicianShifts = false }
}

// WithoutBreakSeconds keeps technician_shifts but drops its break_seconds column.
func WithoutBreakSeconds() SchemaOption {
	return func(s *schemaSpec) { s.shiftBreakSeconds = false }
}

// WithoutSchedules omits the weekly schedule and exception tables.
func WithoutSchedules() SchemaOption {
	return func(s *schemaSpec) {
		s.weeklySchedules = false
		s.scheduleExceptions = false
	}
}

// WithoutJobCardBusinessUnit drops the job_cards.business_unit_id column,
// forcing the creator-linkage scope fallback.
func WithoutJobCardBusinessUnit() SchemaOption {
	return func(s *schemaSpec) { s.jobCardBusinessUnit = false }
}

// WithoutJobCardMetadata drops the free-form metadata column.
func WithoutJobCardMetadata() SchemaOption {
	return func(s *schemaSpec) { s.jobCardMetadata = false }
}

// WithoutVehiclePlate drops the vehicle plate column.
func WithoutVehiclePlate() SchemaOption {
	return func(s *schemaSpec) { s.jobCardVehiclePlate = false }
}

// OpenSQLite opens a fresh in-memory SQLite database.
func OpenSQLite(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// CreateWorkshopSchema creates the workshop tables in the given database.
// By default the full schema is created; options simulate older
// deployments that lack optional tables or columns.
func CreateWorkshopSchema(t *testing.T, db *sqlx.DB, opts ...SchemaOption) {
	t.Helper()

	spec := schemaSpec{
		technicianShifts:    true,
		shiftBreakSeconds:   true,
		weeklySchedules:     true,
		scheduleExceptions:  true,
		jobCardBusinessUnit: true,
		jobCardMetadata:     true,
		jobCardVehiclePlate: true,
	}
	for _, opt := range opts {
		opt(&spec)
	}

	stmts := []string{
		`CREATE TABLE business_units (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			business_unit_id INTEGER
		)`,
		`CREATE TABLE technicians (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			employee_code TEXT NOT NULL DEFAULT '',
			business_unit_id INTEGER,
			user_id TEXT
		)`,
		jobCardsDDL(spec),
		`CREATE TABLE assignments (
			id TEXT PRIMARY KEY,
			job_card_id TEXT NOT NULL,
			technician_id TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE time_logs (
			id TEXT PRIMARY KEY,
			technician_id TEXT NOT NULL,
			assignment_id TEXT,
			job_card_id TEXT NOT NULL,
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP,
			status TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL DEFAULT 0
		)`,
	}

	if spec.technicianShifts {
		ddl := `CREATE TABLE technician_shifts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			technician_id TEXT NOT NULL,
			clock_in_time TIMESTAMP NOT NULL,
			clock_out_time TIMESTAMP`
		if spec.shiftBreakSeconds {
			ddl += `,
			break_seconds INTEGER NOT NULL DEFAULT 0`
		}
		ddl += `
		)`
		stmts = append(stmts, ddl)
	}

	if spec.weeklySchedules {
		stmts = append(stmts, `CREATE TABLE weekly_schedules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			technician_id TEXT NOT NULL,
			weekday INTEGER NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL
		)`)
	}

	if spec.scheduleExceptions {
		stmts = append(stmts, `CREATE TABLE schedule_exceptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			technician_id TEXT NOT NULL,
			exception_date TEXT NOT NULL,
			is_working INTEGER NOT NULL DEFAULT 1,
			start_time TEXT,
			end_time TEXT
		)`)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to create schema: %v\n%s", err, stmt)
		}
	}
}

func jobCardsDDL(spec schemaSpec) string {
	ddl := `CREATE TABLE job_cards (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		created_by TEXT,
		estimated_hours REAL,
		created_at TIMESTAMP NOT NULL`
	if spec.jobCardBusinessUnit {
		ddl += `,
		business_unit_id INTEGER`
	}
	if spec.jobCardVehiclePlate {
		ddl += `,
		vehicle_plate TEXT`
	}
	if spec.jobCardMetadata {
		ddl += `,
		metadata TEXT`
	}
	ddl += `
	)`
	return ddl
}
