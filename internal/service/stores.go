package service

import (
	"context"
	"time"

	"go-user-api/internal/model"
)

// Store contracts consumed by the services. The pgx repositories satisfy
// them in production; tests substitute fakes.

type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByLoginOrEmail(ctx context.Context, login string) ([]model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u model.User) error
	Update(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id string) (model.User, error)
	RoleOf(ctx context.Context, id string) (model.Role, error)
	List(ctx context.Context, filter model.UserFilter, limit int, offset int) ([]model.User, error)
	Count(ctx context.Context, filter model.UserFilter) (int, error)
}

type SessionStore interface {
	UpsertByUser(ctx context.Context, userID string, token string, expiresAt time.Time) error
	FindByToken(ctx context.Context, token string) (model.RefreshSession, error)
	Rotate(ctx context.Context, oldToken string, newToken string, expiresAt time.Time) error
	DeleteByToken(ctx context.Context, token string) error
}

type BanStore interface {
	Create(ctx context.Context, ban model.Ban) error
	ActiveForUser(ctx context.Context, userID string, now time.Time) ([]model.Ban, error)
	CloseActive(ctx context.Context, userID string, now time.Time) (int64, error)
}
