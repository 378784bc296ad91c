package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(m *Metrics, h *HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/health", HealthHandler(m, h))
	r.GET("/health/ready", ReadinessHandler(h))
	r.GET("/health/live", LivenessHandler(m))
	r.GET("/metrics", MetricsHandler(m))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics()
	r := newRouter(m, NewHealthChecker(time.Second))

	get(r, "/ok")
	get(r, "/ok")
	get(r, "/fail")
	get(r, "/nowhere/123")

	snap := m.Snapshot()
	assert.Equal(t, int64(4), snap.RequestCount)
	assert.Equal(t, int64(2), snap.ErrorCount)
	assert.Equal(t, int64(0), snap.ActiveRequests)
	assert.Equal(t, int64(2), snap.StatusCodes[http.StatusOK])
	assert.Equal(t, int64(1), snap.StatusCodes[http.StatusNotFound])
	assert.Equal(t, int64(2), snap.Endpoints["GET /ok"])
	assert.Equal(t, int64(1), snap.Endpoints["GET"], "unmatched paths share one bucket")
	assert.False(t, snap.LastRequest.IsZero())
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	r := newRouter(m, NewHealthChecker(time.Second))
	get(r, "/ok")

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Application Snapshot      `json:"application"`
		System      SystemMetrics `json:"system"`
		Timestamp   time.Time     `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Application.RequestCount)
	assert.Equal(t, int64(1), body.Application.StatusCodes[http.StatusOK])
	assert.NotEmpty(t, body.System.GoVersion)
	assert.False(t, body.Timestamp.IsZero())
}

func TestHealthChecks(t *testing.T) {
	m := NewMetrics()
	h := NewHealthChecker(time.Second)
	h.Register("database", func(ctx context.Context) error { return nil })
	r := newRouter(m, h)

	w := get(r, "/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)

	h.Register("redis", func(ctx context.Context) error { return errors.New("connection refused") })

	w = get(r, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = get(r, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status string        `json:"status"`
		Checks []CheckResult `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, StatusUnhealthy, body.Status)
	require.Len(t, body.Checks, 2)
	assert.Equal(t, "database", body.Checks[0].Name)
	assert.True(t, body.Checks[0].Healthy())
	assert.Equal(t, "redis", body.Checks[1].Name)
	assert.Equal(t, "connection refused", body.Checks[1].Message)

	w = get(r, "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"alive"`)
}

func TestHealthCheckTimeout(t *testing.T) {
	h := NewHealthChecker(20 * time.Millisecond)
	h.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	results := h.Run(context.Background())
	require.Len(t, results, 1)
	assert.False(t, results[0].Healthy())
	assert.Equal(t, context.DeadlineExceeded.Error(), results[0].Message)
}
