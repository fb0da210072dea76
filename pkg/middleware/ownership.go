package middleware

import (
	"net/http"

	"github.com/platinummonkey/todo/pkg/apperrors"
	"github.com/platinummonkey/todo/pkg/httputil"
	"github.com/sirupsen/logrus"
)

// CheckOwnership fails when the user named in the path is not the caller.
// The mismatch is reported as 401, the same as a failed authentication.
func CheckOwnership(pathUserID, authenticatedUserID int64) error {
	if pathUserID != authenticatedUserID {
		return apperrors.New(apperrors.CodeForbidden, "Unauthorized")
	}
	return nil
}

// OwnerGuard rejects requests whose path user differs from the authenticated user
type OwnerGuard struct {
	logger  logrus.FieldLogger
	metrics RejectionRecorder
}

// NewOwnerGuard creates an owner guard. metrics may be nil.
func NewOwnerGuard(logger logrus.FieldLogger, metrics RejectionRecorder) *OwnerGuard {
	return &OwnerGuard{logger: logger, metrics: metrics}
}

// RequireOwner compares the mux path variable param with the user id set by
// AuthGuard. It must run after AuthGuard.Handler and before any data access.
func (o *OwnerGuard) RequireOwner(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return httputil.Handle(o.logger, func(w http.ResponseWriter, r *http.Request) error {
			authUserID, ok := UserIDFromContext(r.Context())
			if !ok {
				return apperrors.New(apperrors.CodeMissingCredentials, msgNotAuthenticated)
			}

			pathUserID, err := httputil.ParsePathInt64(r, param)
			if err != nil {
				return err
			}

			if err := CheckOwnership(pathUserID, authUserID); err != nil {
				if o.metrics != nil {
					o.metrics.RecordAuthRejection(ReasonOwner)
				}
				return err
			}

			next.ServeHTTP(w, r)
			return nil
		})
	}
}
