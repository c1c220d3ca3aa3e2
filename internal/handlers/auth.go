package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sharmalakshay/listky/internal/middleware"
	"github.com/sharmalakshay/listky/internal/models"
	"github.com/sharmalakshay/listky/internal/service"
)

// SessionCookie is the cookie carrying the opaque session token. Handlers
// only move the token string between the cookie and the session manager.
const SessionCookie = "session"

type AuthHandler struct {
	Auth *service.AuthService
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	user, err := h.Auth.Register(r.Context(), &req, middleware.ClientIP(r))
	if err != nil {
		DomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /login and sets the session cookie on success
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	resp, err := h.Auth.Login(r.Context(), &req, middleware.ClientIP(r))
	if err != nil {
		DomainError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    resp.SessionToken,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	WriteJSON(w, http.StatusOK, resp)
}

// Logout handles POST /logout. Idempotent: logging out without a session
// still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		h.Auth.Logout(r.Context(), c.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// sessionUser resolves the request's session cookie to a username, or ""
// when the visitor is anonymous.
func (h *AuthHandler) sessionUser(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	username, ok := h.Auth.SessionUser(c.Value)
	if !ok {
		return ""
	}
	return username
}
