package model

import "errors"

var (
	// User store errors
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already used")
	ErrUsernameTaken = errors.New("username already used")

	// Token and session errors
	ErrSessionNotFound = errors.New("refresh session not found")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("token invalid")

	// Generic
	ErrInvalidInput = errors.New("invalid input")
)

// BannedError rejects a request from a user with at least one active ban.
// It carries the active ban windows so the client can display them.
type BannedError struct {
	Bans []BanInfo
}

func (e *BannedError) Error() string {
	return "user currently banned"
}
