// Package api implements the HTTP surface of the to-do service.
//
// Routes are registered on a gorilla/mux router. Handlers return errors and
// are wrapped with httputil.Handle, which is the only place errors become
// responses. Every route under /api/users/{user_id} and /api/{user_id}/tasks
// runs behind middleware.AuthGuard and middleware.OwnerGuard, and handlers
// scope store calls by the authenticated user id rather than the path.
package api
