package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/platinummonkey/todo/pkg/apperrors"
	"github.com/platinummonkey/todo/pkg/auth"
	"github.com/platinummonkey/todo/pkg/contextkeys"
	"github.com/platinummonkey/todo/pkg/httputil"
	"github.com/sirupsen/logrus"
)

const (
	msgNotAuthenticated = "Not authenticated"
	msgInvalidToken     = "Invalid or expired token"
)

// Rejection reasons reported to the metrics recorder. They never reach clients.
const (
	ReasonMissing = "missing"
	ReasonInvalid = "invalid"
	ReasonExpired = "expired"
	ReasonClaim   = "claim"
	ReasonOwner   = "owner_mismatch"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// RejectionRecorder counts rejected requests by reason
type RejectionRecorder interface {
	RecordAuthRejection(reason string)
}

// AuthGuard authenticates requests carrying a bearer token
type AuthGuard struct {
	tokens  TokenValidator
	logger  logrus.FieldLogger
	metrics RejectionRecorder
}

// NewAuthGuard creates a guard. metrics may be nil.
func NewAuthGuard(tokens TokenValidator, logger logrus.FieldLogger, metrics RejectionRecorder) *AuthGuard {
	return &AuthGuard{
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}
}

// Authenticate extracts the bearer token from an Authorization header value and
// returns the user id it was issued for.
//
// Every token failure yields the same client message; the specific reason is
// only recorded in metrics and debug logs.
func (g *AuthGuard) Authenticate(authHeader string) (int64, error) {
	token, ok := bearerToken(authHeader)
	if !ok {
		g.reject(ReasonMissing)
		return 0, apperrors.New(apperrors.CodeMissingCredentials, msgNotAuthenticated)
	}

	claims, err := g.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrConfig) {
			return 0, apperrors.Wrap(apperrors.CodeConfig, "token signing secret is not configured", err)
		}
		reason := ReasonInvalid
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			reason = ReasonExpired
		case errors.Is(err, auth.ErrMissingClaim):
			reason = ReasonClaim
		}
		g.reject(reason)
		g.logger.WithField("reason", reason).Debug("token rejected")
		return 0, apperrors.Wrap(apperrors.CodeUnauthorized, msgInvalidToken, err)
	}

	return claims.UserID, nil
}

// Handler wraps an HTTP handler with authentication
func (g *AuthGuard) Handler(next http.Handler) http.Handler {
	return httputil.Handle(g.logger, func(w http.ResponseWriter, r *http.Request) error {
		userID, err := g.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			return err
		}

		ctx := contextkeys.WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
		return nil
	})
}

func (g *AuthGuard) reject(reason string) {
	if g.metrics != nil {
		g.metrics.RecordAuthRejection(reason)
	}
}

// UserIDFromContext returns the authenticated user id stored by AuthGuard
func UserIDFromContext(ctx context.Context) (int64, bool) {
	return contextkeys.GetUserID(ctx)
}

// bearerToken parses "Bearer <token>". The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
