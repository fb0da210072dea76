package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/platinummonkey/todo/pkg/api"
	"github.com/platinummonkey/todo/pkg/auth"
	"github.com/platinummonkey/todo/pkg/config"
	"github.com/platinummonkey/todo/pkg/observability"
	"github.com/platinummonkey/todo/pkg/storage"
	"github.com/platinummonkey/todo/pkg/storage/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todo-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cm, err := postgres.NewConnectionManager(ctx, postgres.ConnectionConfig{
		URL:         cfg.Database.URL,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		Timeout:     cfg.Database.Timeout,
		MaxLifetime: cfg.Database.MaxLifetime,
		MaxIdleTime: cfg.Database.MaxIdleTime,
	}, logger)
	if err != nil {
		return err
	}
	defer cm.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, cm.DB()); err != nil {
			return err
		}
		logger.Info("Database schema migrated")
	}

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Observability.TracingEnabled,
		Endpoint:    cfg.Observability.OTLPEndpoint,
		Insecure:    cfg.Observability.OTLPInsecure,
		ServiceName: cfg.Observability.ServiceName,
		SampleRatio: cfg.Observability.TraceSampleRatio,
	}, logger)
	if err != nil {
		return err
	}
	var tracer trace.TracerProvider
	if tp != nil {
		tracer = tp
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := observability.ShutdownTracing(shutdownCtx, tp, logger); err != nil {
				logger.WithError(err).Warn("Tracing shutdown failed")
			}
		}()
	}

	registry := prometheus.NewRegistry()
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewDBStatsCollector(cm.DB(), "todo"),
		)
	}

	var tasks storage.TaskStore = postgres.NewTaskStore(cm.DB())
	var redisClient *redis.Client
	if cfg.Cache.Enabled() {
		cache, err := postgres.NewRedisClient(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			return err
		}
		defer cache.Close()
		redisClient = cache.Client()

		var recorder postgres.CacheRecorder
		if metrics != nil {
			recorder = metrics
		}
		tasks = postgres.NewCachedTaskStore(tasks, cache, logger, recorder)
		logger.WithField("ttl", cfg.Cache.TTL).Info("Task list cache enabled")
	}

	server := api.NewServer(api.Options{
		Users:  postgres.NewUserStore(cm.DB()),
		Tasks:  tasks,
		Hasher: auth.NewHasher(cfg.Auth.BcryptCost),
		Tokens: auth.NewTokenService(auth.TokenConfig{
			Secret: []byte(cfg.Auth.Secret),
			TTL:    cfg.Auth.TokenTTL,
		}),
		Logger:       logger,
		Metrics:      metrics,
		Tracer:       tracer,
		CORSOrigins:  cfg.Server.CORSOrigins,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		EnvCheck:     cfg.EnvCheck,
	})

	probes := []observability.Probe{observability.DatabaseProbe(cm.DB())}
	if redisClient != nil {
		probes = append(probes, observability.CacheProbe(redisClient))
	}
	ops := http.NewServeMux()
	observability.RegisterHealthRoutes(ops, observability.NewHealthChecker(logger, probes...))
	if metrics != nil {
		observability.RegisterMetricsEndpoint(ops, registry)
	}

	apiServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	opsServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler:      ops,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.WithFields(logrus.Fields{
		"addr":       apiServer.Addr,
		"ops_addr":   opsServer.Addr,
		"cache":      cfg.Cache.Enabled(),
		"token_ttl":  cfg.Auth.TokenTTL,
		"cors_count": len(cfg.Server.CORSOrigins),
	}).Info("Starting to-do API server")

	return observability.ServeAll(ctx, logger, cfg.Server.ShutdownTimeout, apiServer, opsServer)
}
