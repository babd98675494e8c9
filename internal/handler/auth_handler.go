package handler

import (
	"errors"
	"fmt"
	"net/http"

	"go-user-api/internal/model"
	"go-user-api/internal/service"
	"go-user-api/internal/token"
	"go-user-api/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	user, pair, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, token.RefreshCookie(pair.Refresh, pair.RefreshExpiresAt))
	writeJSON(w, r, http.StatusCreated, map[string]any{
		"message":     fmt.Sprintf("User `%s` registered successfully", user.Username),
		"accessToken": token.Bearer(pair.Access),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	user, pair, err := h.service.Login(r.Context(), payload.Login, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, token.RefreshCookie(pair.Refresh, pair.RefreshExpiresAt))
	writeJSON(w, r, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("User `%s` logged in successfully", user.Username),
		"accessToken": token.Bearer(pair.Access),
	})
}

// Logout deletes the caller's refresh session and clears the cookie. The
// logged gate guarantees the cookie is present.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(token.RefreshCookieName)
	if err != nil {
		writeError(w, apierror.New(apierror.KindMissingCredential, "Missing refresh token", http.StatusNotFound))
		return
	}

	if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, token.ClearRefreshCookie())
	writeJSON(w, r, http.StatusOK, map[string]any{
		"message": "User logged out successfully",
	})
}

// Refresh rotates the refresh credential explicitly and returns the new
// access token. The old refresh token is unusable afterwards.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(token.RefreshCookieName)
	if err != nil {
		writeError(w, apierror.New(apierror.KindMissingCredential, "Missing refresh token", http.StatusNotFound))
		return
	}

	pair, err := h.service.Renew(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			writeError(w, apierror.New(apierror.KindSessionNotFound, "Invalid refresh token", http.StatusUnauthorized))
			return
		}
		writeError(w, err)
		return
	}

	http.SetCookie(w, token.RefreshCookie(pair.Refresh, pair.RefreshExpiresAt))
	writeJSON(w, r, http.StatusOK, map[string]any{
		"message":     "Token refreshed successfully",
		"accessToken": token.Bearer(pair.Access),
	})
}

// PasswordReset is deliberately unimplemented and always answers 501.
func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	writeError(w, apierror.New(apierror.KindNotImplemented, "Not implemented", http.StatusNotImplemented))
}
