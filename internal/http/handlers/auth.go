package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rioporto/v5-rioporto-sub007/internal/auth"
	"github.com/rioporto/v5-rioporto-sub007/internal/http/respond"
	"github.com/rioporto/v5-rioporto-sub007/internal/middleware"
	"github.com/rioporto/v5-rioporto-sub007/internal/models/dto"
	"github.com/rioporto/v5-rioporto-sub007/internal/session"
)

// SessionCookie carries the session ID; the other three cookies are the
// guard's signals.
const SessionCookie = "session_id"

// AuthHandler owns the authentication endpoints. On login it issues the
// session cookie plus the three guard cookies; on logout it clears all four.
type AuthHandler struct {
	service      *auth.Service
	cookieSecure bool
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service *auth.Service, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: service, cookieSecure: cookieSecure}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/login", h.handleLogin)
	mux.HandleFunc("/api/auth/register", h.handleRegister)
	mux.HandleFunc("/api/auth/logout", h.handleLogout)
	mux.HandleFunc("/api/auth/session", h.handleSession)
	mux.HandleFunc("/api/auth/extend", h.handleExtend)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Only context cancellation reaches here.
		respond.Error(w, http.StatusServiceUnavailable, auth.MsgInternalError)
		return
	}
	if !res.Success {
		respond.Error(w, http.StatusUnauthorized, res.Error)
		return
	}

	sess := h.service.Session(r.Context(), res.SessionID)
	expires := time.Now().Add(session.DefaultTTL)
	if sess != nil {
		expires = sess.ExpiresAt
	}
	h.setCookie(w, SessionCookie, res.SessionID, expires)
	h.setCookie(w, middleware.AuthTokenCookie, res.Token, expires)
	h.setCookie(w, middleware.UserRoleCookie, string(res.User.Role), expires)
	h.setCookie(w, middleware.KYCLevelCookie, strconv.Itoa(res.User.KYCLevel), expires)

	respond.JSON(w, http.StatusOK, "login successful", dto.AuthResponse{Token: res.Token, User: res.User})
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	res, err := h.service.Register(r.Context(), req.Email, req.Name, req.Password, req.ConfirmPassword)
	if err != nil {
		respond.Error(w, http.StatusServiceUnavailable, auth.MsgInternalError)
		return
	}
	if !res.Success {
		respond.Error(w, http.StatusBadRequest, res.Error)
		return
	}
	// No session, no cookies: registration does not log the user in.
	respond.JSON(w, http.StatusCreated, "registration accepted", dto.AuthResponse{User: res.User})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if id := cookieValue(r, SessionCookie); id != "" {
		if err := h.service.Logout(r.Context(), id); err != nil {
			respond.Error(w, http.StatusInternalServerError, auth.MsgInternalError)
			return
		}
	}
	h.clearAuthCookies(w)
	respond.JSON(w, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := cookieValue(r, SessionCookie)
	sess := h.service.Session(r.Context(), id)
	if sess == nil {
		// The session is gone; leaving the guard cookies in place would
		// keep the edge guard treating this client as authenticated.
		h.clearAuthCookies(w)
		respond.Error(w, http.StatusUnauthorized, "sessão expirada ou inexistente")
		return
	}
	respond.JSON(w, http.StatusOK, "session active", dto.SessionResponse{
		User:         sess.User,
		ExpiresAt:    sess.ExpiresAt.Format(time.RFC3339),
		ExpiringSoon: sess.ExpiringSoon(),
	})
}

func (h *AuthHandler) handleExtend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := cookieValue(r, SessionCookie)
	if !h.service.ExtendSession(r.Context(), id) {
		h.clearAuthCookies(w)
		respond.Error(w, http.StatusUnauthorized, "sessão expirada ou inexistente")
		return
	}
	sess := h.service.Session(r.Context(), id)
	if sess == nil {
		respond.Error(w, http.StatusUnauthorized, "sessão expirada ou inexistente")
		return
	}
	respond.JSON(w, http.StatusOK, "session extended", dto.SessionResponse{
		User:         sess.User,
		ExpiresAt:    sess.ExpiresAt.Format(time.RFC3339),
		ExpiringSoon: sess.ExpiringSoon(),
	})
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: name == SessionCookie,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	h.clearCookie(w, SessionCookie)
	h.clearCookie(w, middleware.AuthTokenCookie)
	h.clearCookie(w, middleware.UserRoleCookie)
	h.clearCookie(w, middleware.KYCLevelCookie)
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
