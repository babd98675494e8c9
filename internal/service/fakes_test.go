package service

import (
	"context"
	"sync"
	"time"

	"go-user-api/internal/model"
)

// In-memory stores backing the service tests.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (f *fakeUserStore) add(u model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (f *fakeUserStore) FindByLoginOrEmail(_ context.Context, login string) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, u model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	delete(f.users, id)
	return u, nil
}

func (f *fakeUserStore) RoleOf(_ context.Context, id string) (model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return "", model.ErrUserNotFound
	}
	return u.Role, nil
}

func (f *fakeUserStore) List(_ context.Context, filter model.UserFilter, limit int, offset int) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []model.User
	for _, u := range f.users {
		if matchesFilter(filter, u) {
			matched = append(matched, u)
		}
	}
	sortUsersByCreation(matched)

	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (f *fakeUserStore) Count(_ context.Context, filter model.UserFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, u := range f.users {
		if matchesFilter(filter, u) {
			count++
		}
	}
	return count, nil
}

func matchesFilter(filter model.UserFilter, u model.User) bool {
	if filter.ID != "" && u.ID != filter.ID {
		return false
	}
	if filter.Username != "" && u.Username != filter.Username {
		return false
	}
	if filter.Email != "" && u.Email != filter.Email {
		return false
	}
	if filter.Firstname != "" && (u.Firstname == nil || *u.Firstname != filter.Firstname) {
		return false
	}
	if filter.Lastname != "" && u.Lastname != filter.Lastname {
		return false
	}
	if filter.Role != "" && u.Role != filter.Role {
		return false
	}
	return true
}

func sortUsersByCreation(users []model.User) {
	for i := 1; i < len(users); i++ {
		for j := i; j > 0 && users[j].CreatedAt.Before(users[j-1].CreatedAt); j-- {
			users[j], users[j-1] = users[j-1], users[j]
		}
	}
}

type fakeSessionStore struct {
	mu       sync.Mutex
	byToken  map[string]model.RefreshSession
	byUserID map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		byToken:  map[string]model.RefreshSession{},
		byUserID: map[string]string{},
	}
}

func (f *fakeSessionStore) UpsertByUser(_ context.Context, userID string, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if old, ok := f.byUserID[userID]; ok {
		delete(f.byToken, old)
	}
	f.byToken[token] = model.RefreshSession{UserID: userID, Token: token, ExpiresAt: expiresAt}
	f.byUserID[userID] = token
	return nil
}

func (f *fakeSessionStore) FindByToken(_ context.Context, token string) (model.RefreshSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byToken[token]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return model.RefreshSession{}, model.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) Rotate(_ context.Context, oldToken string, newToken string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byToken[oldToken]
	if !ok {
		return model.ErrSessionNotFound
	}
	delete(f.byToken, oldToken)
	s.Token = newToken
	s.ExpiresAt = expiresAt
	f.byToken[newToken] = s
	f.byUserID[s.UserID] = newToken
	return nil
}

func (f *fakeSessionStore) DeleteByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byToken[token]; ok {
		delete(f.byUserID, s.UserID)
		delete(f.byToken, token)
	}
	return nil
}

type fakeBanStore struct {
	mu   sync.Mutex
	bans []model.Ban
}

func newFakeBanStore() *fakeBanStore {
	return &fakeBanStore{}
}

func (f *fakeBanStore) Create(_ context.Context, ban model.Ban) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bans = append(f.bans, ban)
	return nil
}

func (f *fakeBanStore) ActiveForUser(_ context.Context, userID string, now time.Time) ([]model.Ban, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Ban
	for _, b := range f.bans {
		if b.UserID == userID && b.ActiveAt(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBanStore) CloseActive(_ context.Context, userID string, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var closed int64
	for i := range f.bans {
		if f.bans[i].UserID == userID && f.bans[i].ActiveAt(now) {
			end := now
			f.bans[i].EndAt = &end
			closed++
		}
	}
	return closed, nil
}
