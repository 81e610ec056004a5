package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/errors"
	"github.com/fleetworks/fleetworks-backend/pkg/testutil"
)

func TestDetectCapabilities_FullSchema(t *testing.T) {
	db := testutil.OpenSQLite(t)
	testutil.CreateWorkshopSchema(t, db)

	caps, err := database.DetectCapabilities(context.Background(), db, database.SQLiteDialect{})
	require.NoError(t, err)

	assert.True(t, caps.TechnicianShifts)
	assert.True(t, caps.ShiftBreakSeconds)
	assert.True(t, caps.WeeklySchedules)
	assert.True(t, caps.ScheduleExceptions)
	assert.True(t, caps.JobCardBusinessUnit)
	assert.True(t, caps.JobCardMetadata)
	assert.True(t, caps.JobCardVehiclePlate)
}

func TestDetectCapabilities_LegacySchema(t *testing.T) {
	db := testutil.OpenSQLite(t)
	testutil.CreateWorkshopSchema(t, db,
		testutil.WithoutTechnicianShifts(),
		testutil.WithoutSchedules(),
		testutil.WithoutJobCardBusinessUnit(),
		testutil.WithoutJobCardMetadata(),
		testutil.WithoutVehiclePlate(),
	)

	caps, err := database.DetectCapabilities(context.Background(), db, database.SQLiteDialect{})
	require.NoError(t, err)

	assert.False(t, caps.TechnicianShifts)
	assert.False(t, caps.ShiftBreakSeconds)
	assert.False(t, caps.WeeklySchedules)
	assert.False(t, caps.ScheduleExceptions)
	assert.False(t, caps.JobCardBusinessUnit)
	assert.False(t, caps.JobCardMetadata)
	assert.False(t, caps.JobCardVehiclePlate)
}

func TestDetectCapabilities_ShiftsWithoutBreakColumn(t *testing.T) {
	db := testutil.OpenSQLite(t)
	testutil.CreateWorkshopSchema(t, db, testutil.WithoutBreakSeconds())

	caps, err := database.DetectCapabilities(context.Background(), db, database.SQLiteDialect{})
	require.NoError(t, err)

	assert.True(t, caps.TechnicianShifts)
	assert.False(t, caps.ShiftBreakSeconds)
}

func TestDetectCapabilities_MissingRequiredTable(t *testing.T) {
	db := testutil.OpenSQLite(t)
	// No schema at all: every required table is absent.

	_, err := database.DetectCapabilities(context.Background(), db, database.SQLiteDialect{})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "SCHEMA_UNAVAILABLE", appErr.Code)
	assert.Contains(t, appErr.Details["missing_tables"], "time_logs")
}
