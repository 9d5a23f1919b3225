package handlers

import (
	"context"
	"errors"
	"net/http"

	"pos-service/internal/models"
	"pos-service/internal/repository"
	"pos-service/internal/service"
)

type Authenticator interface {
	Register(ctx context.Context, username, password, role string) (*models.User, error)
	Login(ctx context.Context, username, password, role string) (*models.User, string, error)
}

type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "conflict", "Username already exists", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to register user", nil)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Account created successfully!",
		"user":    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "auth_failed", "Invalid credentials or role", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to log in", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}
