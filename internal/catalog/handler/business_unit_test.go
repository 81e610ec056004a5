package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetworks/fleetworks-backend/internal/catalog/service"
	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/identity"
	"github.com/fleetworks/fleetworks-backend/pkg/logger"
	"github.com/fleetworks/fleetworks-backend/pkg/testutil"
)

func newRouter(t *testing.T) *chi.Mux {
	t.Helper()

	raw := testutil.OpenSQLite(t)
	testutil.CreateWorkshopSchema(t, raw)

	log := logger.New("catalog-handler-test", "test")
	db, err := database.NewWithDB(context.Background(), raw, database.SQLiteDialect{}, log)
	require.NoError(t, err)

	router := chi.NewRouter()
	NewBusinessUnitHandler(service.NewBusinessUnitService(db, nil, log), log).RegisterRoutes(router)
	return router
}

func do(t *testing.T, router http.Handler, method, target, body string, caller identity.Caller) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(identity.WithCaller(req.Context(), caller))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBusinessUnitRoutes_RoleGuard(t *testing.T) {
	router := newRouter(t)
	admin := identity.Caller{UserID: "admin", Role: identity.RoleSuperAdmin}
	manager := identity.Caller{UserID: "mgr", Role: "Manager"}

	// Writes are closed to non-privileged roles.
	rec := do(t, router, http.MethodPost, "/business-units/", `{"name":"North"}`, manager)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodPost, "/business-units/", `{"name":"North"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Reads stay open.
	rec = do(t, router, http.MethodGet, "/business-units/", "", manager)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBusinessUnitCreate_Validation(t *testing.T) {
	router := newRouter(t)
	admin := identity.Caller{UserID: "admin", Role: identity.RoleSuperAdmin}

	rec := do(t, router, http.MethodPost, "/business-units/", `{"name":""}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/business-units/", `not json`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBusinessUnitGet_BadID(t *testing.T) {
	router := newRouter(t)
	admin := identity.Caller{UserID: "admin", Role: identity.RoleSuperAdmin}

	rec := do(t, router, http.MethodGet, "/business-units/abc", "", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
