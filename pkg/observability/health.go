package observability

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/platinummonkey/todo/pkg/httputil"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Version is the API version reported by health endpoints
const Version = "1.0.0"

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// ProbeTimeout bounds a readiness check
const ProbeTimeout = 5 * time.Second

// ProbeError is a failed probe. Message is safe to put in a response;
// Cause only goes to the log.
type ProbeError struct {
	Message string
	Cause   error
}

func (e *ProbeError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *ProbeError) Unwrap() error { return e.Cause }

// Probe checks one dependency. A failing Required probe makes the service
// unhealthy; any other failure only degrades it. Check may return a non-empty
// warning with a nil error to report degraded-but-working.
type Probe struct {
	Name     string
	Required bool
	Check    func(ctx context.Context) (warning string, err error)
}

// DatabaseProbe requires the pool to answer and the task schema to exist
func DatabaseProbe(db *sql.DB) Probe {
	return Probe{
		Name:     "database",
		Required: true,
		Check: func(ctx context.Context) (string, error) {
			if err := db.PingContext(ctx); err != nil {
				return "", &ProbeError{Message: "ping failed", Cause: err}
			}
			if _, err := db.ExecContext(ctx, "SELECT 1 FROM tasks LIMIT 1"); err != nil {
				return "", &ProbeError{Message: "schema unavailable", Cause: err}
			}
			if stats := db.Stats(); stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections {
				return "connection pool exhausted", nil
			}
			return "", nil
		},
	}
}

// CacheProbe checks the task-list cache. Losing it only costs latency.
func CacheProbe(client *redis.Client) Probe {
	return Probe{
		Name: "redis",
		Check: func(ctx context.Context) (string, error) {
			if err := client.Ping(ctx).Err(); err != nil {
				return "", &ProbeError{Message: "ping failed", Cause: err}
			}
			return "", nil
		},
	}
}

// HealthChecker runs the registered probes for the ops port
type HealthChecker struct {
	probes []Probe
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewHealthChecker creates a checker over probes
func NewHealthChecker(logger logrus.FieldLogger, probes ...Probe) *HealthChecker {
	return &HealthChecker{
		probes: probes,
		logger: logger,
		now:    time.Now,
	}
}

// HealthStatus is the readiness report
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Version      string                      `json:"version"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus is one probe's outcome
type DependencyStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// Check runs every probe concurrently
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	results := make([]DependencyStatus, len(h.probes))

	// Probes never fail the group, each reports into its own slot
	var g errgroup.Group
	for i, probe := range h.probes {
		i, probe := i, probe
		g.Go(func() error {
			results[i] = h.run(ctx, probe)
			return nil
		})
	}
	_ = g.Wait()

	report := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: h.now().UTC(),
		Version:   Version,
	}
	if len(h.probes) > 0 {
		report.Dependencies = make(map[string]DependencyStatus, len(h.probes))
	}
	for i, probe := range h.probes {
		dep := results[i]
		report.Dependencies[probe.Name] = dep
		switch {
		case dep.Status == StatusUnhealthy && probe.Required:
			report.Status = StatusUnhealthy
		case dep.Status != StatusHealthy && report.Status == StatusHealthy:
			report.Status = StatusDegraded
		}
	}
	return report
}

func (h *HealthChecker) run(ctx context.Context, probe Probe) DependencyStatus {
	start := time.Now()
	warning, err := probe.Check(ctx)
	dep := DependencyStatus{
		Status:    StatusHealthy,
		LatencyMS: time.Since(start).Milliseconds(),
	}

	switch {
	case err != nil:
		dep.Status = StatusUnhealthy
		dep.Message = "check failed"
		var probeErr *ProbeError
		if errors.As(err, &probeErr) {
			dep.Message = probeErr.Message
		}
		h.logger.WithError(err).WithField("dependency", probe.Name).Warn("health probe failed")
	case warning != "":
		dep.Status = StatusDegraded
		dep.Message = warning
	}
	return dep
}

// Liveness reports that the process is serving
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": h.now().UTC(),
	})
}

// Readiness is 503 only when a required dependency is down
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ProbeTimeout)
	defer cancel()

	report := h.Check(ctx)
	code := http.StatusOK
	if report.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	_ = httputil.WriteJSON(w, code, report)
}

// RegisterHealthRoutes registers health check endpoints
func RegisterHealthRoutes(mux *http.ServeMux, checker *HealthChecker) {
	mux.HandleFunc("/health", checker.Readiness)
	mux.HandleFunc("/health/live", checker.Liveness)
	mux.HandleFunc("/health/ready", checker.Readiness)
}
