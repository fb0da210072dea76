package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/todo/pkg/httputil"
	"github.com/platinummonkey/todo/pkg/observability"
)

// HealthHandler reports process health without touching the database
type HealthHandler struct {
	envCheck func() map[string]string
	now      func() time.Time
}

// NewHealthHandler creates a health handler. envCheck reports whether each
// deployment variable is set and must never return values.
func NewHealthHandler(envCheck func() map[string]string) *HealthHandler {
	return &HealthHandler{envCheck: envCheck, now: time.Now}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(router *mux.Router, wrap routeWrapper) {
	router.Handle("/api/health", wrap(h.health)).Methods(http.MethodGet)
}

// health handles GET /api/health
func (h *HealthHandler) health(w http.ResponseWriter, r *http.Request) error {
	envCheck := map[string]string{}
	if h.envCheck != nil {
		envCheck = h.envCheck()
	}
	return httputil.WriteSuccess(w, HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000000Z"),
		Version:   observability.Version,
		EnvCheck:  envCheck,
	})
}
