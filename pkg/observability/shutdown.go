package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds graceful shutdown when no timeout is given
const DefaultShutdownTimeout = 30 * time.Second

// ServeAll runs every server until ctx is cancelled or one of them fails,
// then shuts all of them down within timeout.
func ServeAll(ctx context.Context, logger logrus.FieldLogger, timeout time.Duration, servers ...*http.Server) error {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.WithField("addr", srv.Addr).Info("HTTP server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).WithField("addr", srv.Addr).Error("HTTP server shutdown error")
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		if len(errs) == 0 {
			logger.Info("Graceful shutdown complete")
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
