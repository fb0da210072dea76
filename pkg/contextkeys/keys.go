// Package contextkeys provides centralized context key definitions
//
// All context keys used across the application are defined here so that
// producers and consumers agree on both the key and the stored type.
//
// USAGE PATTERN:
//
//	ctx = contextkeys.WithUserID(ctx, claims.UserID)
//	userID, ok := contextkeys.GetUserID(ctx)
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// UserIDKey contains the authenticated user id
	// Set by: middleware.AuthGuard (pkg/middleware/auth.go)
	// Required by: ownership enforcement, every task and user handler
	// Type: int64
	UserIDKey Key = "user_id"

	// RequestIDKey contains request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: request logging, error logging
	// Type: string
	RequestIDKey Key = "request_id"

	// RequestUserKey contains the *RequestUser shared by one request
	// Set by: httputil.LoggingMiddleware
	// Filled by: WithUserID
	// Type: *RequestUser
	RequestUserKey Key = "request_user"
)

// RequestUser records who a request turned out to belong to. It lets
// middleware running outside authentication see the caller afterwards.
type RequestUser struct {
	ID    int64
	Known bool
}

// WithRequestUser attaches an empty RequestUser to the context
func WithRequestUser(ctx context.Context) (context.Context, *RequestUser) {
	user := &RequestUser{}
	return context.WithValue(ctx, RequestUserKey, user), user
}

// WithUserID adds the authenticated user id to the context and fills in the
// request's RequestUser when there is one
func WithUserID(ctx context.Context, userID int64) context.Context {
	if user, ok := ctx.Value(RequestUserKey).(*RequestUser); ok {
		user.ID = userID
		user.Known = true
	}
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID retrieves the authenticated user id from context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
