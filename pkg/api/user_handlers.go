package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/todo/pkg/apperrors"
	"github.com/platinummonkey/todo/pkg/auth"
	"github.com/platinummonkey/todo/pkg/httputil"
	"github.com/platinummonkey/todo/pkg/middleware"
	"github.com/platinummonkey/todo/pkg/observability"
	"github.com/platinummonkey/todo/pkg/storage"
	"github.com/platinummonkey/todo/pkg/validation"
	"github.com/sirupsen/logrus"
)

const msgUserNotFound = "User not found"

// UserHandlers serves the caller's own account
type UserHandlers struct {
	users     storage.UserStore
	hasher    *auth.Hasher
	validator *validation.Validator
	logger    logrus.FieldLogger
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(users storage.UserStore, hasher *auth.Hasher, v *validation.Validator, logger logrus.FieldLogger) *UserHandlers {
	return &UserHandlers{users: users, hasher: hasher, validator: v, logger: logger}
}

// RegisterRoutes registers user routes. wrap must enforce ownership of {user_id}.
func (h *UserHandlers) RegisterRoutes(router *mux.Router, wrap routeWrapper) {
	router.Handle("/api/users/{user_id}", wrap(h.getUser)).Methods(http.MethodGet)
	router.Handle("/api/users/{user_id}", wrap(h.updateUser)).Methods(http.MethodPut)
}

// getUser handles GET /api/users/{user_id}
func (h *UserHandlers) getUser(w http.ResponseWriter, r *http.Request) error {
	userID, _ := middleware.UserIDFromContext(r.Context())

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		return userError(err)
	}
	return httputil.WriteSuccess(w, user.Public())
}

// updateUser handles PUT /api/users/{user_id}
func (h *UserHandlers) updateUser(w http.ResponseWriter, r *http.Request) error {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req UpdateUserRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		return err
	}

	var update storage.UserUpdate
	if req.Email != nil {
		email := validation.NormalizeEmail(*req.Email)
		if err := h.validator.Email(email); err != nil {
			return err
		}
		existing, err := h.users.GetUserByEmail(r.Context(), email)
		switch {
		case err == nil && existing.ID != userID:
			return apperrors.Conflict(msgEmailTaken)
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return apperrors.Internal(err)
		}
		update.Email = &email
	}
	if req.Password != nil {
		if err := validation.Password(*req.Password); err != nil {
			return err
		}
		hash, err := h.hasher.Hash(*req.Password)
		if err != nil {
			return apperrors.Internal(err)
		}
		update.PasswordHash = &hash
	}

	user, err := h.users.UpdateUser(r.Context(), userID, update)
	if err != nil {
		return userError(err)
	}

	observability.FromContext(r.Context(), h.logger).WithFields(logrus.Fields{
		"user_id":          user.ID,
		"email_changed":    update.Email != nil,
		"password_changed": update.PasswordHash != nil,
	}).Info("user updated")
	return httputil.WriteSuccess(w, user.Public())
}

func userError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NotFound(msgUserNotFound)
	case errors.Is(err, storage.ErrConflict):
		return apperrors.Wrap(apperrors.CodeConflict, msgEmailTaken, err)
	default:
		return apperrors.Internal(err)
	}
}
