package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetworks/fleetworks-backend/internal/reporting/service"
	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/httputil"
	"github.com/fleetworks/fleetworks-backend/pkg/identity"
	"github.com/fleetworks/fleetworks-backend/pkg/logger"
	"github.com/fleetworks/fleetworks-backend/pkg/testutil"
)

func newTestRouter(t *testing.T) (*chi.Mux, *database.DB) {
	t.Helper()

	raw := testutil.OpenSQLite(t)
	testutil.CreateWorkshopSchema(t, raw)

	log := logger.New("handler-test", "test")
	db, err := database.NewWithDB(context.Background(), raw, database.SQLiteDialect{}, log)
	require.NoError(t, err)

	svc := service.NewReportService(db, nil, log).
		WithClock(func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) })

	router := chi.NewRouter()
	NewReportHandler(svc, log).RegisterRoutes(router)
	return router, db
}

func seed(t *testing.T, db *database.DB) {
	t.Helper()
	mustExec := func(query string) {
		_, err := db.Exec(query)
		require.NoError(t, err)
	}
	mustExec(`INSERT INTO business_units (id, name) VALUES (1, 'North')`)
	mustExec(`INSERT INTO technicians (id, name, employee_code, business_unit_id) VALUES ('t1', 'Alex', 'EMP-1', 1)`)
}

func doRequest(t *testing.T, router http.Handler, target string, caller *identity.Caller) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if caller != nil {
		req = req.WithContext(identity.WithCaller(req.Context(), *caller))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTechnicianPerformance_OK(t *testing.T) {
	router, db := newTestRouter(t)
	seed(t, db)

	caller := identity.Caller{UserID: "admin", Role: identity.RoleSuperAdmin}
	rec := doRequest(t, router, "/reports/technician-performance?start_date=2024-03-04&end_date=2024-03-10", &caller)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Data []struct {
				TechnicianID string `json:"technician_id"`
				ShiftSource  string `json:"total_shift_hours_source"`
			} `json:"data"`
			Summary struct {
				TotalTechnicians int `json:"total_technicians"`
			} `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Data, 1)
	assert.Equal(t, "t1", resp.Data.Data[0].TechnicianID)
	assert.Equal(t, "none", resp.Data.Data[0].ShiftSource)
	assert.Equal(t, 1, resp.Data.Summary.TotalTechnicians)
}

func TestTechnicianPerformance_MissingCaller(t *testing.T) {
	router, db := newTestRouter(t)
	seed(t, db)

	rec := doRequest(t, router, "/reports/technician-performance", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTechnicianPerformance_BadBusinessUnit(t *testing.T) {
	router, db := newTestRouter(t)
	seed(t, db)

	caller := identity.Caller{UserID: "admin", Role: identity.RoleSuperAdmin}
	rec := doRequest(t, router, "/reports/technician-performance?business_unit_id=abc", &caller)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "business_unit_id")
}

func TestTechnicianPerformance_UnknownTechnician(t *testing.T) {
	router, db := newTestRouter(t)
	seed(t, db)

	caller := identity.Caller{UserID: "admin", Role: identity.RoleSuperAdmin}
	rec := doRequest(t, router, "/reports/technician-performance?technician_id=ghost", &caller)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTechnicianPerformance_BadDate(t *testing.T) {
	router, db := newTestRouter(t)
	seed(t, db)

	caller := identity.Caller{UserID: "admin", Role: identity.RoleSuperAdmin}
	rec := doRequest(t, router, "/reports/technician-performance?start_date=notadate", &caller)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
