package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	assert.NotNil(t, metrics.HTTPRequestsTotal)
	assert.NotNil(t, metrics.HTTPRequestDuration)
	assert.NotNil(t, metrics.AuthRejectionsTotal)

	// Registering twice on the same registry must fail loudly
	assert.Panics(t, func() { NewMetrics(registry) })
}

func TestMetrics_Recorders(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	metrics.RecordAuthRejection("expired")
	metrics.RecordAuthRejection("expired")
	metrics.RecordAuthRejection("missing")
	metrics.CacheHit("tasks")
	metrics.CacheMiss("tasks")
	metrics.CacheError("tasks", "get")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.AuthRejectionsTotal.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AuthRejectionsTotal.WithLabelValues("missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheHitsTotal.WithLabelValues("tasks")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheMissesTotal.WithLabelValues("tasks")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheErrorsTotal.WithLabelValues("tasks", "get")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var metrics *Metrics

	assert.NotPanics(t, func() {
		metrics.RecordAuthRejection("invalid")
		metrics.CacheHit("tasks")
		metrics.CacheMiss("tasks")
		metrics.CacheError("tasks", "set")
	})
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware(metrics))
	router.HandleFunc("/api/{user_id}/tasks/{task_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET")

	for _, path := range []string{"/api/1/tasks/10", "/api/2/tasks/20"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/{user_id}/tasks/{task_id}", "404")
	assert.Equal(t, 2.0, testutil.ToFloat64(counter))

	// Raw paths never become label values
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.HTTPRequestsTotal))
}

func TestHTTPMetricsMiddleware_Nil(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	HTTPMetricsMiddleware(nil)(next).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestRegisterMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	metrics.RecordAuthRejection("invalid")

	mux := http.NewServeMux()
	RegisterMetricsEndpoint(mux, registry)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `todo_auth_rejections_total{reason="invalid"} 1`))
}
