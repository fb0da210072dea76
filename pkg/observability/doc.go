// Package observability provides structured logging, Prometheus metrics,
// OpenTelemetry tracing, health checks and server lifecycle helpers.
//
// # Structured Logging
//
// Create logger:
//
//	logger, err := observability.NewLogger("info", observability.FormatJSON, os.Stdout)
//	logger.WithField("port", 8000).Info("Server started")
//
// Request-scoped logging:
//
//	observability.FromContext(r.Context(), logger).Error("Request failed")
//	// adds request_id and user_id when present
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	router.Use(observability.HTTPMetricsMiddleware(metrics))
//
// Routes are labelled by their mux template (/api/{user_id}/tasks), never by
// the raw path, and no metric carries user data.
//
// # Tracing
//
//	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
//		Enabled:     true,
//		Endpoint:    "localhost:4317",
//		Insecure:    true,
//		ServiceName: "todo-api",
//		SampleRatio: 1.0,
//	}, logger)
//	defer observability.ShutdownTracing(context.Background(), tp, logger)
//	router.Use(observability.TracingMiddleware(tp))
//
// InitTracing returns a nil provider when tracing is disabled; the middleware
// then passes requests through untouched. Span names use the route template.
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(logger,
//		observability.DatabaseProbe(db),
//		observability.CacheProbe(redisClient),
//	)
//	observability.RegisterHealthRoutes(opsMux, checker)
//
// Probes run concurrently. The database is required for readiness; Redis only
// degrades it. Responses carry a fixed message per failure; causes are logged.
//
// # Lifecycle
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//	err := observability.ServeAll(ctx, logger, 30*time.Second, apiServer, opsServer)
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/httputil: Request logging middleware
package observability
