package database

import "fmt"

// Dialect abstracts the handful of SQL expressions that differ between the
// two supported backends. Queries are written with "?" placeholders and
// passed through sqlx Rebind, so placeholder style never leaks into query
// construction; everything else that differs lives here.
type Dialect interface {
	// Name is the config-facing driver name.
	Name() string

	// Timestamp wraps a column or placeholder so that timestamp
	// comparisons behave consistently regardless of the stored format.
	Timestamp(expr string) string

	// EpochDiff yields the number of seconds between two timestamp
	// expressions (end - start).
	EpochDiff(end, start string) string

	// Least and Greatest are the two-argument scalar comparisons.
	Least(a, b string) string
	Greatest(a, b string) string

	// TruncWeek and TruncMonth truncate a timestamp expression to the
	// start of its ISO week / calendar month.
	TruncWeek(expr string) string
	TruncMonth(expr string) string

	// TableExistsQuery takes one parameter (table name) and returns a
	// single boolean column. ColumnExistsQuery takes two (table, column).
	TableExistsQuery() string
	ColumnExistsQuery() string
}

// PostgresDialect targets PostgreSQL via lib/pq.
type PostgresDialect struct{}

func (PostgresDialect) Name() string { return "postgres" }

func (PostgresDialect) Timestamp(expr string) string {
	return fmt.Sprintf("CAST(%s AS timestamp)", expr)
}

func (PostgresDialect) EpochDiff(end, start string) string {
	return fmt.Sprintf("EXTRACT(EPOCH FROM (CAST(%s AS timestamp) - CAST(%s AS timestamp)))", end, start)
}

func (PostgresDialect) Least(a, b string) string {
	return fmt.Sprintf("LEAST(%s, %s)", a, b)
}

func (PostgresDialect) Greatest(a, b string) string {
	return fmt.Sprintf("GREATEST(%s, %s)", a, b)
}

func (PostgresDialect) TruncWeek(expr string) string {
	return fmt.Sprintf("date_trunc('week', CAST(%s AS timestamp))", expr)
}

func (PostgresDialect) TruncMonth(expr string) string {
	return fmt.Sprintf("date_trunc('month', CAST(%s AS timestamp))", expr)
}

func (PostgresDialect) TableExistsQuery() string {
	return `SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = ?
	)`
}

func (PostgresDialect) ColumnExistsQuery() string {
	return `SELECT EXISTS (
		SELECT 1 FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = ? AND column_name = ?
	)`
}

// SQLiteDialect targets SQLite via mattn/go-sqlite3. SQLite stores
// timestamps as text, so comparisons and arithmetic go through datetime()
// and strftime() to normalize the stored representation.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string { return "sqlite3" }

func (SQLiteDialect) Timestamp(expr string) string {
	return fmt.Sprintf("datetime(%s)", expr)
}

func (SQLiteDialect) EpochDiff(end, start string) string {
	return fmt.Sprintf("(strftime('%%s', %s) - strftime('%%s', %s))", end, start)
}

// SQLite's scalar MIN/MAX take multiple arguments; the aggregate forms
// only kick in with a single argument.
func (SQLiteDialect) Least(a, b string) string {
	return fmt.Sprintf("MIN(%s, %s)", a, b)
}

func (SQLiteDialect) Greatest(a, b string) string {
	return fmt.Sprintf("MAX(%s, %s)", a, b)
}

func (SQLiteDialect) TruncWeek(expr string) string {
	// 'weekday 1' rolls forward to Monday; backing up 6 days lands on the
	// Monday at or before the input date.
	return fmt.Sprintf("date(%s, 'weekday 1', '-6 days')", expr)
}

func (SQLiteDialect) TruncMonth(expr string) string {
	return fmt.Sprintf("date(%s, 'start of month')", expr)
}

func (SQLiteDialect) TableExistsQuery() string {
	return `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`
}

func (SQLiteDialect) ColumnExistsQuery() string {
	return `SELECT EXISTS (SELECT 1 FROM pragma_table_info(?) WHERE name = ?)`
}

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres":
		return PostgresDialect{}, nil
	case "sqlite3":
		return SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
