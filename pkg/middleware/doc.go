// Package middleware provides the HTTP authorization layer.
//
// # Components
//
// AuthGuard: Bearer token authentication
//
//	guard := middleware.NewAuthGuard(tokenService, logger, metrics)
//	router.Handle("/api/{user_id}/tasks", guard.Handler(h))
//	// Validates the token and stores the user id in the request context
//
// OwnerGuard: Path ownership enforcement
//
//	owner := middleware.NewOwnerGuard(logger, metrics)
//	h = guard.Handler(owner.RequireOwner("user_id")(h))
//	// Rejects /api/{user_id}/... when user_id is not the caller
//
// # Status Mapping
//
// Missing or malformed Authorization header: 401 "Not authenticated"
// Any token failure (bad signature, expired, wrong algorithm, no user_id): 401 "Invalid or expired token"
// Path user differs from caller: 401 "Unauthorized"
// Non-integer path user id: 422
//
// Record-level ownership (a task id owned by another user) is enforced by the
// stores, which scope every query by owner and report foreign rows as not found.
//
// # Related Packages
//
//   - pkg/auth: Token validation
//   - pkg/contextkeys: Request context values
//   - pkg/storage: Owner-scoped queries
package middleware
