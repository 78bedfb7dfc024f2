package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/directory"
	"github.com/taskdeck/taskdeck/internal/handler/dto"
	"github.com/taskdeck/taskdeck/internal/session"
)

// AuthHandler handles HTTP requests for the auth session.
type AuthHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// SignUp handles POST /api/v1/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error())
		return
	}

	user, err := h.sessions.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.handleSessionError(w, err)
		return
	}

	h.logger.Info("user_signed_up", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// SignIn handles POST /api/v1/auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error())
		return
	}

	user, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleSessionError(w, err)
		return
	}

	h.logger.Info("user_signed_in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// SignOut handles POST /api/v1/auth/signout.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context()); err != nil {
		h.handleSessionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.Current()
	if user == nil {
		writeError(w, http.StatusUnauthorized, "NO_ACTIVE_SESSION", "Not signed in")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// handleSessionError maps session errors to HTTP responses.
func (h *AuthHandler) handleSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, directory.ErrEmailExists):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
	case errors.Is(err, session.ErrSessionActive):
		writeError(w, http.StatusConflict, "SESSION_ACTIVE", "Sign out before signing in again")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "An internal error occurred")
	}
}
