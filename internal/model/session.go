package model

import "time"

// RefreshSession is the single persisted record binding a user to their
// current refresh credential. At most one row exists per user; issuing a
// new pair overwrites it, rotation replaces the token in place.
type RefreshSession struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenPair is the result of issuance or rotation. Access is the raw
// signed token; the "Bearer " prefix is added at the transport edge.
type TokenPair struct {
	UserID           string
	Access           string
	Refresh          string
	RefreshExpiresAt time.Time
}
