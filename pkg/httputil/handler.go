package httputil

import (
	"net/http"

	"github.com/platinummonkey/todo/pkg/contextkeys"
	"github.com/sirupsen/logrus"
)

// HandlerFunc is an HTTP handler that reports failures by returning them
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to http.Handler. Returned errors are written via WriteError;
// server-side failures are logged with their cause.
func Handle(logger logrus.FieldLogger, fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		status, _ := StatusAndDetail(err)
		if status >= http.StatusInternalServerError {
			entry := logger.WithError(err).WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"status": status,
			})
			if requestID := contextkeys.GetRequestID(r.Context()); requestID != "" {
				entry = entry.WithField("request_id", requestID)
			}
			entry.Error("request failed")
		}
		WriteError(w, err)
	})
}
