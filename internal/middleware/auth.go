package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-user-api/internal/model"
	"go-user-api/internal/token"
)

type accessVerifier interface {
	VerifyAccess(tok string) (token.Claims, error)
}

type sessionRenewer interface {
	Renew(ctx context.Context, refreshToken string) (model.TokenPair, error)
}

type contextKey string

const (
	userIDContextKey        contextKey = "auth_user_id"
	renewedAccessContextKey contextKey = "auth_renewed_access"
)

// Auth is the per-request authorization gate. An expired access credential
// is renewed silently through the refresh cookie; the request then
// proceeds under the renewed identity and the fresh access token is
// recorded in the context for the response envelope to surface.
type Auth struct {
	verifier accessVerifier
	renewer  sessionRenewer
}

func NewAuth(verifier accessVerifier, renewer sessionRenewer) *Auth {
	return &Auth{verifier: verifier, renewer: renewer}
}

func (m *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, model.ErrorResponse{Error: "Missing access token"})
			return
		}

		claims, err := m.verifier.VerifyAccess(raw)
		switch {
		case err == nil:
			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), claims.UserID)))

		case errors.Is(err, model.ErrTokenExpired):
			cookie, cerr := r.Cookie(token.RefreshCookieName)
			if cerr != nil || strings.TrimSpace(cookie.Value) == "" {
				writeError(w, http.StatusUnauthorized, model.ErrorResponse{Error: "Invalid tokens"})
				return
			}

			pair, rerr := m.renewer.Renew(r.Context(), cookie.Value)
			if rerr != nil {
				writeError(w, http.StatusUnauthorized, model.ErrorResponse{Error: "Invalid tokens"})
				return
			}

			// Rotation succeeded: attach the new refresh cookie now and
			// let the envelope writer splice the new access token into
			// whatever response the handler produces.
			http.SetCookie(w, token.RefreshCookie(pair.Refresh, pair.RefreshExpiresAt))
			ctx := withUserID(r.Context(), pair.UserID)
			ctx = WithRenewedAccessToken(ctx, token.Bearer(pair.Access))
			next.ServeHTTP(w, r.WithContext(ctx))

		default:
			writeError(w, http.StatusUnauthorized, model.ErrorResponse{Error: "Invalid access token"})
		}
	})
}

// Guest admits only requests without a currently valid access credential;
// register and login are for logged-out callers.
func (m *Auth) Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := m.verifier.VerifyAccess(raw); err == nil {
			writeError(w, http.StatusConflict, model.ErrorResponse{Error: "Already logged in"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Logged requires the refresh cookie to be present; logout and refresh
// are meaningless without it.
func (m *Auth) Logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(token.RefreshCookieName)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			writeError(w, http.StatusNotFound, model.ErrorResponse{Error: "Missing refresh token"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(header, token.BearerPrefix) {
		return "", false
	}

	raw := strings.TrimSpace(header[len(token.BearerPrefix):])
	return raw, raw != ""
}

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserID returns the identity resolved by the authorization gate.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok && id != ""
}

// WithRenewedAccessToken records a freshly minted "Bearer …" access
// token so response writers can surface it to the client.
func WithRenewedAccessToken(ctx context.Context, tok string) context.Context {
	return context.WithValue(ctx, renewedAccessContextKey, tok)
}

// RenewedAccessToken reports the "Bearer …" access token minted by a
// silent renewal on this request, if one happened.
func RenewedAccessToken(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(renewedAccessContextKey).(string)
	return tok, ok && tok != ""
}
