// Package http provides the HTTP handlers and routing for the tiered
// data-sharing API: credential issuance under /auth and the
// clearance-controlled record operations under /data.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"securedata/internal/service"

	"go.uber.org/zap"
)

// AuthService defines the authentication operations required by the HTTP
// handlers.
type AuthService interface {
	// Register creates a new user at the lowest clearance tier.
	Register(ctx context.Context, username, password string) error
	// Login verifies credentials and returns a session token and user id.
	Login(ctx context.Context, username, password string) (token string, userID string, err error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Log is used for store-failure logging.
	Log *zap.Logger
}

// credentialsRequest represents the JSON payload for registration and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles user registration requests.
// It expects a JSON body with non-empty "username" and "password" fields.
// Responds 200 on success, 400 on blank fields, and 409 when the username
// is already taken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrEmptyCredentials):
		writeMessage(w, http.StatusBadRequest, "username and password required")
	case errors.Is(err, service.ErrUserExists):
		writeMessage(w, http.StatusConflict, "user already exists")
	case err != nil:
		h.Log.Error("register failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "internal error")
	default:
		writeMessage(w, http.StatusOK, "user registered successfully")
	}
}

// Login handles login requests.
// On valid credentials it responds 200 with the session token and user id;
// any credential failure is answered 401 with a single generic message so
// the response does not reveal whether the username exists.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	token, userID, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrEmptyCredentials):
		writeMessage(w, http.StatusBadRequest, "username and password required")
	case errors.Is(err, service.ErrBadCredentials):
		writeMessage(w, http.StatusUnauthorized, "bad credentials")
	case err != nil:
		h.Log.Error("login failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"token":  token,
			"userId": userID,
		})
	}
}

// writeJSON answers the request with an arbitrary JSON body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeMessage answers the request with the JSON message envelope used for
// all non-payload responses.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
