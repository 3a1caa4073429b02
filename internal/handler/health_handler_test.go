// internal/handler/health_handler_test.go
package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-service/internal/config"
	"pos-service/internal/database"
	"pos-service/internal/printer"
)

// newUnreachableDB opens a pool against a port nothing listens on. The
// lazy pq driver only fails once a health check actually pings it.
func newUnreachableDB(t *testing.T) *database.DB {
	t.Helper()
	sqlDB, err := sql.Open("postgres", "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1")
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return &database.DB{DB: sqlDB}
}

func newTestHealthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{Name: "pos-service", Version: "1.0.0"},
	}
	transport := printer.NewTransport(32, zap.NewNop())
	h := NewHealthHandler(newUnreachableDB(t), transport, cfg, zap.NewNop())

	router := gin.New()
	h.RegisterRoutes(router.Group(""))
	return router
}

func TestHealthCheckUnreachableDatabase(t *testing.T) {
	router := newTestHealthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	var health HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("invalid health response: %v", err)
	}

	if health.Status != "unhealthy" {
		t.Errorf("overall status = %q, want unhealthy", health.Status)
	}
	if health.Checks["database"].Status != "unhealthy" {
		t.Errorf("database check = %q, want unhealthy", health.Checks["database"].Status)
	}

	// Printer state is reported but never flips the overall status.
	printerCheck, ok := health.Checks["printer"]
	if !ok {
		t.Fatal("printer check missing from health response")
	}
	if printerCheck.Status != "disconnected" {
		t.Errorf("printer check = %q, want disconnected", printerCheck.Status)
	}
}

func TestReadinessCheckUnreachableDatabase(t *testing.T) {
	router := newTestHealthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestLivenessCheck(t *testing.T) {
	router := newTestHealthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
