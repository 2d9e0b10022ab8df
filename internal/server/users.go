package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/maauso/dreamjob/internal/user"
)

func toUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Register handles POST /users/register requests.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	u, err := h.users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered", "EMAIL_TAKEN")
			return
		}
		h.logger.Error("failed to register user",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to register user", "REGISTRATION_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// Login handles POST /users/login requests. On success it sets the session
// cookie.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password", "INVALID_CREDENTIALS")
			return
		}
		h.logger.Error("failed to log in",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to log in", "LOGIN_FAILED")
		return
	}

	sess, err := h.sessions.Create(r.Context(), u.ID)
	if err != nil {
		h.logger.Error("failed to create session",
			slog.Int("user_id", u.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to log in", "LOGIN_FAILED")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Logout handles POST /users/logout requests. It is idempotent.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to delete session",
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to log out", "LOGOUT_FAILED")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /users/me requests.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := UserIDFromContext(r.Context())

	u, found, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load user",
			slog.Int("user_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load user", "USER_LOOKUP_FAILED")
		return
	}
	if !found {
		writeError(w, http.StatusUnauthorized, "login required", "UNAUTHORIZED")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}
