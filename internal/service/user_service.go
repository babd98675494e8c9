package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-user-api/internal/event"
	"go-user-api/internal/model"
)

// UserService is the CRUD surface over the user store. Moderation and
// token concerns live elsewhere; this only manages user records.
type UserService struct {
	users      UserStore
	bcryptCost int
	bus        event.Bus
}

func NewUserService(users UserStore, bcryptCost int, bus event.Bus) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &UserService{users: users, bcryptCost: bcryptCost, bus: bus}
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest, actorID string) (model.User, error) {
	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, model.ErrEmailTaken
	}

	taken, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, model.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		Firstname:    req.Firstname,
		Lastname:     strings.TrimSpace(req.Lastname),
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.User{}, err
	}

	s.publish(event.New(event.TypeUserCreated, user.ID, actorID, user.Username))
	return user, nil
}

// ListQuery selects and pages user listings.
type ListQuery struct {
	Filter  model.UserFilter
	Page    int
	PerPage int
}

// List returns a page of users visible to the caller. Non-admin callers
// only see USER-role accounts, whatever the filter asks for; the role
// restriction is resolved live against the store.
func (s *UserService) List(ctx context.Context, q ListQuery, callerID string) (model.Paginate, error) {
	role, err := s.users.RoleOf(ctx, callerID)
	if err != nil {
		return model.Paginate{}, err
	}
	if role != model.RoleAdmin {
		q.Filter.Role = model.RoleUser
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 5
	}
	offset := (q.Page - 1) * q.PerPage

	users, err := s.users.List(ctx, q.Filter, q.PerPage, offset)
	if err != nil {
		return model.Paginate{}, err
	}

	total, err := s.users.Count(ctx, q.Filter)
	if err != nil {
		return model.Paginate{}, err
	}

	data := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		data = append(data, u.Public())
	}

	return model.Paginate{
		Page:              q.Page,
		PerPage:           q.PerPage,
		CurrentStartIndex: offset + 1,
		Count:             len(data),
		Total:             total,
		Data:              data,
	}, nil
}

func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest, actorID string) (model.User, error) {
	// A malformed id can't match any row; don't bother the store.
	if uuid.Validate(id) != nil {
		return model.User{}, model.ErrUserNotFound
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return model.User{}, err
		}
		if taken {
			return model.User{}, model.ErrEmailTaken
		}
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.users.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return model.User{}, err
		}
		if taken {
			return model.User{}, model.ErrUsernameTaken
		}
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Firstname != nil {
		user.Firstname = req.Firstname
	}
	if req.Lastname != nil {
		user.Lastname = strings.TrimSpace(*req.Lastname)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return model.User{}, err
	}

	s.publish(event.New(event.TypeUserUpdated, user.ID, actorID, user.Username))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string, actorID string) (model.User, error) {
	if uuid.Validate(id) != nil {
		return model.User{}, model.ErrUserNotFound
	}

	user, err := s.users.Delete(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	s.publish(event.New(event.TypeUserDeleted, user.ID, actorID, user.Username))
	return user, nil
}

func (s *UserService) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
