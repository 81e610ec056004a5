package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetworks/fleetworks-backend/internal/reporting/domain"
	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/logger"
	"github.com/fleetworks/fleetworks-backend/pkg/testutil"
)

// newPostgresMock wires a sqlmock connection through capability detection.
// Every schema probe answers true, so the full schema is assumed.
func newPostgresMock(t *testing.T) (*database.DB, *testutil.MockDB) {
	t.Helper()

	m := testutil.NewMockDB(t)
	t.Cleanup(func() { m.Close() })

	for i := 0; i < 13; i++ {
		m.Mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(testutil.MockRows("exists").AddRow(true))
	}

	db, err := database.NewWithDB(context.Background(), m.DB, database.PostgresDialect{}, logger.New("pg-mock-test", "test"))
	require.NoError(t, err)
	return db, m
}

// The worked-hours query must render PostgreSQL expressions and numbered
// placeholders in a stable argument order: range bounds first, then the
// scope parameter.
func TestWorkedHoursByTechnician_PostgresRendering(t *testing.T) {
	db, m := newPostgresMock(t)
	repo := NewMetricsRepository(db)
	rng := reportRange(t)

	m.Mock.ExpectQuery(`GREATEST\(COALESCE\(tl\.duration_seconds, 0\), EXTRACT\(EPOCH FROM`).
		WithArgs(rng.StartBound(), rng.EndBound(), int64(3)).
		WillReturnRows(testutil.MockRows("technician_id", "worked_seconds").AddRow("t1", 12600))

	worked, err := repo.WorkedHoursByTechnician(context.Background(), domain.Scope{BusinessUnitID: 3}, rng)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, worked["t1"], 0.001)

	m.ExpectationsWereMet(t)
}

func TestMeasuredShiftHours_PostgresRendering(t *testing.T) {
	db, m := newPostgresMock(t)
	repo := NewMetricsRepository(db)
	rng := reportRange(t)

	m.Mock.ExpectQuery(`LEAST\(CAST\(COALESCE\(s\.clock_out_time, CURRENT_TIMESTAMP\) AS timestamp\)`).
		WithArgs(rng.EndBound(), rng.StartBound(), rng.EndBound(), rng.StartBound()).
		WillReturnRows(testutil.MockRows("technician_id", "shift_seconds").AddRow("t1", 28800))

	shifts, err := repo.MeasuredShiftHoursByTechnician(context.Background(), rng)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, shifts["t1"], 0.001)

	m.ExpectationsWereMet(t)
}
