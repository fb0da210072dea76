// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Overview
//
// Handlers in this service return errors instead of writing failure responses
// themselves. Handle is the single boundary that turns those errors into status
// codes and a `{"detail": "..."}` body, so no handler can leak internal detail
// by accident.
//
// # Handlers
//
//	func (s *Server) getTask(w http.ResponseWriter, r *http.Request) error {
//		task, err := s.tasks.GetTask(r.Context(), owner, id)
//		if err != nil {
//			return err
//		}
//		return httputil.WriteSuccess(w, task)
//	}
//
//	router.Handle("/api/{user_id}/tasks/{task_id}", httputil.Handle(logger, s.getTask))
//
// # Error Responses
//
// *apperrors.Error values are written with Code.HTTPStatus() and their Message.
// Anything else becomes a 500 with "Internal server error"; the real error is
// logged, never sent.
//
// # Request Parsing
//
//	var req createTaskRequest
//	if err := httputil.ParseJSON(r, &req); err != nil {
//		return err // 422
//	}
//	taskID, err := httputil.ParsePathInt64(r, "task_id") // 422 on bad input
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RecoveryMiddleware(logger),
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.CORSMiddleware(origins),
//		httputil.MaxBytesMiddleware(1<<20),
//	)
//
// # Related Packages
//
//   - pkg/apperrors: error codes and their status mapping
//   - pkg/middleware: Authentication and ownership middleware
package httputil
