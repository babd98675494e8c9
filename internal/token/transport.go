package token

import (
	"net/http"
	"time"
)

// RefreshCookieName is the cookie carrying the refresh credential.
const RefreshCookieName = "refreshToken"

// BearerPrefix is prepended to access tokens surfaced in response bodies
// and expected on incoming Authorization headers.
const BearerPrefix = "Bearer "

func Bearer(access string) string {
	return BearerPrefix + access
}

// RefreshCookie builds the host-only cookie holding a refresh credential.
// Lifetime matches the credential's own expiry.
func RefreshCookie(value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearRefreshCookie expires the refresh cookie immediately (logout).
func ClearRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
