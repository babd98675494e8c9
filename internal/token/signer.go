// Package token implements the stateless credential signer and verifier.
// Access and refresh credentials are HMAC-signed JWTs issued by two
// independent signers so one kind never verifies under the other's secret.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-user-api/internal/model"
)

// Claims is the verified content of a credential. It is never persisted.
type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Sign mints a credential for userID expiring after the signer's TTL.
func (s *Signer) Sign(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry. Pure computation, no I/O. Fails with
// model.ErrTokenExpired for a well-signed but stale credential and
// model.ErrTokenInvalid for everything else.
func (s *Signer) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, model.ErrTokenExpired
		}
		return Claims{}, model.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return Claims{}, model.ErrTokenInvalid
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return Claims{UserID: claims.Subject, ExpiresAt: expiresAt}, nil
}
