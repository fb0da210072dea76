package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/todo/pkg/auth"
	"github.com/platinummonkey/todo/pkg/httputil"
	"github.com/platinummonkey/todo/pkg/middleware"
	"github.com/platinummonkey/todo/pkg/observability"
	"github.com/platinummonkey/todo/pkg/storage"
	"github.com/platinummonkey/todo/pkg/swagger"
	"github.com/platinummonkey/todo/pkg/validation"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxBodyBytes caps request bodies when Options.MaxBodyBytes is unset
const DefaultMaxBodyBytes = 1 << 20

// routeWrapper turns an error-returning handler into a routed http.Handler
type routeWrapper func(httputil.HandlerFunc) http.Handler

// Options holds everything the server needs. Metrics, Tracer and EnvCheck may be nil.
type Options struct {
	Users  storage.UserStore
	Tasks  storage.TaskStore
	Hasher *auth.Hasher
	Tokens *auth.TokenService

	Logger  logrus.FieldLogger
	Metrics *observability.Metrics
	// Tracer enables a server span per request when set
	Tracer trace.TracerProvider

	CORSOrigins  []string
	MaxBodyBytes int64
	EnvCheck     func() map[string]string
}

// Server represents our API server
type Server struct {
	router  *mux.Router
	handler http.Handler
	logger  logrus.FieldLogger
	guard   *middleware.AuthGuard
	owner   *middleware.OwnerGuard

	authHandlers   *AuthHandlers
	userHandlers   *UserHandlers
	taskHandlers   *TaskHandlers
	healthHandlers *HealthHandler
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	v := validation.New()

	// A nil *Metrics must not become a non-nil interface value
	var rejections middleware.RejectionRecorder
	if opts.Metrics != nil {
		rejections = opts.Metrics
	}

	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
		guard:  middleware.NewAuthGuard(opts.Tokens, logger, rejections),
		owner:  middleware.NewOwnerGuard(logger, rejections),

		authHandlers:   NewAuthHandlers(opts.Users, opts.Hasher, opts.Tokens, v, logger),
		userHandlers:   NewUserHandlers(opts.Users, opts.Hasher, v, logger),
		taskHandlers:   NewTaskHandlers(opts.Tasks, v),
		healthHandlers: NewHealthHandler(opts.EnvCheck),
	}

	s.setupRoutes()
	s.router.Use(
		observability.TracingMiddleware(opts.Tracer),
		observability.HTTPMetricsMiddleware(opts.Metrics),
	)

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	s.handler = httputil.Chain(
		httputil.RecoveryMiddleware(logger),
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.CORSMiddleware(opts.CORSOrigins),
		httputil.MaxBytesMiddleware(maxBody),
	)(s.router)

	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.healthHandlers.RegisterRoutes(s.router, s.public)
	s.authHandlers.RegisterRoutes(s.router, s.public)
	s.userHandlers.RegisterRoutes(s.router, s.owned)
	s.taskHandlers.RegisterRoutes(s.router, s.owned)
	swagger.NewSwaggerHandlers(s.logger).RegisterRoutes(s.router)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteDetail(w, http.StatusNotFound, "Not Found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
}

func (s *Server) public(fn httputil.HandlerFunc) http.Handler {
	return httputil.Handle(s.logger, fn)
}

// owned authenticates the caller, then rejects any path naming another user
func (s *Server) owned(fn httputil.HandlerFunc) http.Handler {
	return s.guard.Handler(s.owner.RequireOwner("user_id")(httputil.Handle(s.logger, fn)))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
