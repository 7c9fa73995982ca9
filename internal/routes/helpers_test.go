package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"textile-qc/inspections/internal/api"
	"textile-qc/inspections/internal/config"
	"textile-qc/inspections/internal/db"
	"textile-qc/inspections/internal/db/repositories"
	"textile-qc/inspections/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, time.February, 14, 9, 30, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		DBDriver:           config.DriverSQLite,
		SQLitePath:         ":memory:",
		CORSAllowedOrigins: []string{"https://dashboard.example.com"},
		MaxBodyBytes:       1 << 20,
	}
}

// setupTestStore opens a migrated in-memory database.
func setupTestStore(t *testing.T) *db.Store {
	t.Helper()

	orm, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	store, err := db.NewStore(orm, "sqlite3")
	if err != nil {
		t.Fatalf("Failed to wrap test database: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func setupTestDeps(t *testing.T, store *db.Store) *api.Dependencies {
	t.Helper()
	reg := metrics.NewMetricsRegistryWith(prometheus.NewRegistry())
	repos := &api.Repositories{
		Inspections: repositories.NewInspectionRepositoryGORM(store.ORM, reg),
	}
	return api.NewDependencies(repos, func() time.Time { return testNow }, reg)
}

// setupTestRouter returns the full application handler over a fresh database.
func setupTestRouter(t *testing.T, cfg *config.Config) (http.Handler, *api.Dependencies) {
	t.Helper()
	store := setupTestStore(t)
	deps := setupTestDeps(t, store)
	return RegisterRoutes(cfg, deps, store.SQL, testNow), deps
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rr.Body.String(), err)
	}
}
