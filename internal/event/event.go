package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeUserRegistered Type = "user.registered"
	TypeUserLoggedIn   Type = "user.logged_in"
	TypeUserLoggedOut  Type = "user.logged_out"
	TypeTokenRefreshed Type = "token.refreshed"
	TypeUserCreated    Type = "user.created"
	TypeUserUpdated    Type = "user.updated"
	TypeUserDeleted    Type = "user.deleted"
	TypeUserBanned     Type = "user.banned"
	TypeUserUnbanned   Type = "user.unbanned"
)

// Event is an auth or moderation fact published by the services. UserID
// is the affected account, ActorID the admin acting on it (empty when the
// user acted on their own account).
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	UserID    string    `json:"userId"`
	ActorID   string    `json:"actorId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func New(t Type, userID string, actorID string, detail string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		UserID:    userID,
		ActorID:   actorID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}

type Bus interface {
	Publish(Event)
	Subscribe() (<-chan Event, func())
}
