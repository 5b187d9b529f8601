package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"hotelhub/internal/middleware"
	"hotelhub/internal/model"
	"hotelhub/internal/service"
	"hotelhub/pkg/apierror"
)

// CookieConfig describes the refresh-token cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	service *service.AuthService
	cookie  CookieConfig
}

func NewAuthHandler(service *service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{service: service, cookie: cookie}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	user, pair, err := h.service.Register(r.Context(), payload, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeData(w, http.StatusCreated, model.AuthData{
		AccessToken: pair.AccessToken,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
	}, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	user, pair, err := h.service.Login(r.Context(), payload, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeData(w, http.StatusOK, model.AuthData{
		AccessToken: pair.AccessToken,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
	}, nil)
}

// Logout clears the cookie and returns 200 regardless of prior auth state.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil {
		h.service.Logout(r.Context(), cookie.Value, clientIP(r))
	}

	h.clearRefreshCookie(w)
	writeData(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookie.Name)
	if err != nil || cookie.Value == "" {
		h.clearRefreshCookie(w)
		writeAuthFailure(w)
		return
	}

	accessToken, err := h.service.RefreshAccessToken(r.Context(), cookie.Value, clientIP(r))
	if err != nil {
		h.clearRefreshCookie(w)
		writeAuthFailure(w)
		return
	}

	writeData(w, http.StatusOK, model.AccessTokenData{AccessToken: accessToken}, nil)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if err := h.service.ChangePassword(r.Context(), claims.UserID, payload, clientIP(r)); err != nil {
		writeError(w, err)
		return
	}

	// Every refresh token was just revoked, including the caller's.
	h.clearRefreshCookie(w)
	writeData(w, http.StatusOK, map[string]any{"password_changed": true}, nil)
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), claims.UserID, clientIP(r)); err != nil {
		writeError(w, err)
		return
	}

	h.clearRefreshCookie(w)
	writeData(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *AuthHandler) Name(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	name, err := h.service.UserName(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, model.NameData{Name: name}, nil)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func writeAuthFailure(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(model.RedirectResponse{Redirect: "/login"})
}
