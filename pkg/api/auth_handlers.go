package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/todo/pkg/apperrors"
	"github.com/platinummonkey/todo/pkg/auth"
	"github.com/platinummonkey/todo/pkg/httputil"
	"github.com/platinummonkey/todo/pkg/observability"
	"github.com/platinummonkey/todo/pkg/storage"
	"github.com/platinummonkey/todo/pkg/validation"
	"github.com/sirupsen/logrus"
)

const (
	msgEmailTaken         = "Email already registered"
	msgInvalidCredentials = "Invalid credentials"
)

// AuthHandlers handles registration and login
type AuthHandlers struct {
	users     storage.UserStore
	hasher    *auth.Hasher
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    logrus.FieldLogger
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(users storage.UserStore, hasher *auth.Hasher, tokens *auth.TokenService, v *validation.Validator, logger logrus.FieldLogger) *AuthHandlers {
	return &AuthHandlers{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validator: v,
		logger:    logger,
	}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router, wrap routeWrapper) {
	router.Handle("/api/auth/register", wrap(h.register)).Methods(http.MethodPost)
	router.Handle("/api/auth/login", wrap(h.login)).Methods(http.MethodPost)
}

// register handles POST /api/auth/register
func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		return err
	}

	email := validation.NormalizeEmail(req.Email)
	if err := h.validator.Email(email); err != nil {
		return err
	}

	// Duplicate email is reported before the password policy
	_, err := h.users.GetUserByEmail(r.Context(), email)
	switch {
	case err == nil:
		return apperrors.Conflict(msgEmailTaken)
	case !errors.Is(err, storage.ErrNotFound):
		return apperrors.Internal(err)
	}

	if err := validation.Password(req.Password); err != nil {
		return err
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		return apperrors.Internal(err)
	}

	user, err := h.users.CreateUser(r.Context(), email, hash)
	if errors.Is(err, storage.ErrConflict) {
		// Lost a race with a concurrent registration
		return apperrors.Wrap(apperrors.CodeConflict, msgEmailTaken, err)
	} else if err != nil {
		return apperrors.Internal(err)
	}

	resp, err := h.session(user)
	if err != nil {
		return err
	}

	observability.FromContext(r.Context(), h.logger).WithField("user_id", user.ID).Info("user registered")
	return httputil.WriteCreated(w, resp)
}

// login handles POST /api/auth/login
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		return err
	}

	email := validation.NormalizeEmail(req.Email)
	if err := h.validator.Email(email); err != nil {
		return err
	}

	// Unknown email and wrong password are indistinguishable to the client
	user, err := h.users.GetUserByEmail(r.Context(), email)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Unauthorized(msgInvalidCredentials)
	} else if err != nil {
		return apperrors.Internal(err)
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		return apperrors.Unauthorized(msgInvalidCredentials)
	}

	resp, err := h.session(user)
	if err != nil {
		return err
	}
	return httputil.WriteSuccess(w, resp)
}

func (h *AuthHandlers) session(user *auth.User) (AuthResponse, error) {
	token, err := h.tokens.Issue(user.ID, user.Email)
	if errors.Is(err, auth.ErrConfig) {
		return AuthResponse{}, apperrors.Wrap(apperrors.CodeConfig, "token signing secret is not configured", err)
	} else if err != nil {
		return AuthResponse{}, apperrors.Internal(err)
	}
	return AuthResponse{User: user.Public(), AccessToken: token}, nil
}
