package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/catalog/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		tenantID, _ := middleware.GetTenantID(c)
		c.String(http.StatusOK, tenantID.String())
	})
}

func TestNewEngine(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	metrics, err := middleware.HTTPMetrics(meter)
	require.NoError(t, err)

	ready := errors.New("database unreachable")
	engine, err := NewEngine(EngineConfig{
		CORS: middleware.CORSConfig{
			AllowOrigins: []string{"https://admin.example.com"},
			AllowMethods: []string{http.MethodGet, http.MethodPost},
		},
		Metrics:      metrics,
		Tenant:       middleware.DefaultTenantConfig(),
		MaxBodyBytes: 1 << 20,
		Ready:        func() error { return ready },
	})
	require.NoError(t, err)
	NewRouter(engine, WithAPIVersion("v2")).Register(pingRoutes{}).Setup()

	t.Run("health skips tenant", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("ready reports dependency failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "database unreachable")
	})

	t.Run("api requires tenant", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		tenantID := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil)
		req.Header.Set(middleware.TenantHeader, tenantID.String())
		req.Header.Set(middleware.RequestIDHeader, "req-42")
		w = httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID.String(), w.Body.String())
		assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v2/ping", nil)
		req.Header.Set("Origin", "https://admin.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodOptions, "/api/v2/ping", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w = httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("request metrics recorded", func(t *testing.T) {
		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(t.Context(), &rm))

		names := map[string]bool{}
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				names[m.Name] = true
			}
		}
		assert.True(t, names["http_server_request_total"])
		assert.True(t, names["http_server_request_duration_seconds"])
	})
}
