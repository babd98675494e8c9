package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-user-api/internal/model"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	return NewUserService(users, bcrypt.MinCost, nil), users
}

func addUserWithRole(users *fakeUserStore, username string, role model.Role, createdAt time.Time) model.User {
	u := model.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     username + "@example.com",
		Lastname:  "Tester",
		Role:      role,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	users.add(u)
	return u
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, _ := newUserFixture(t)

	user, err := svc.Create(context.Background(), model.CreateUserRequest{
		Username: "walter",
		Email:    "walter@example.com",
		Lastname: "White",
		Password: "plaintext",
	}, "admin-1")
	require.NoError(t, err)

	assert.NotEqual(t, "plaintext", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("plaintext")))
}

func TestCreateUserDuplicateChecks(t *testing.T) {
	svc, users := newUserFixture(t)
	addUserWithRole(users, "xena", model.RoleUser, time.Now().UTC())

	_, err := svc.Create(context.Background(), model.CreateUserRequest{
		Username: "fresh",
		Email:    "xena@example.com",
		Lastname: "X",
		Password: "pw",
	}, "admin-1")
	assert.ErrorIs(t, err, model.ErrEmailTaken)

	_, err = svc.Create(context.Background(), model.CreateUserRequest{
		Username: "xena",
		Email:    "new@example.com",
		Lastname: "X",
		Password: "pw",
	}, "admin-1")
	assert.ErrorIs(t, err, model.ErrUsernameTaken)
}

func TestListHidesAdminsFromRegularCallers(t *testing.T) {
	svc, users := newUserFixture(t)
	base := time.Now().UTC()
	caller := addUserWithRole(users, "caller", model.RoleUser, base)
	addUserWithRole(users, "boss", model.RoleAdmin, base.Add(time.Second))
	addUserWithRole(users, "plain", model.RoleUser, base.Add(2*time.Second))

	page, err := svc.List(context.Background(), ListQuery{}, caller.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Total)
	for _, u := range page.Data {
		assert.Equal(t, model.RoleUser, u.Role)
	}
}

func TestListAdminSeesEveryone(t *testing.T) {
	svc, users := newUserFixture(t)
	base := time.Now().UTC()
	admin := addUserWithRole(users, "root", model.RoleAdmin, base)
	addUserWithRole(users, "plain", model.RoleUser, base.Add(time.Second))

	page, err := svc.List(context.Background(), ListQuery{}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestListPaginationDefaults(t *testing.T) {
	svc, users := newUserFixture(t)
	base := time.Now().UTC()
	admin := addUserWithRole(users, "root", model.RoleAdmin, base)
	for i := 0; i < 7; i++ {
		addUserWithRole(users, "user"+string(rune('a'+i)), model.RoleUser, base.Add(time.Duration(i+1)*time.Second))
	}

	page, err := svc.List(context.Background(), ListQuery{}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 5, page.PerPage)
	assert.Equal(t, 1, page.CurrentStartIndex)
	assert.Equal(t, 5, page.Count)
	assert.Equal(t, 8, page.Total)

	second, err := svc.List(context.Background(), ListQuery{Page: 2}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, second.CurrentStartIndex)
	assert.Equal(t, 3, second.Count)
}

func TestUpdateUserAppliesPartialChanges(t *testing.T) {
	svc, users := newUserFixture(t)
	seeded := addUserWithRole(users, "yves", model.RoleUser, time.Now().UTC())

	newEmail := "changed@example.com"
	updated, err := svc.Update(context.Background(), seeded.ID, model.UpdateUserRequest{Email: &newEmail}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, "changed@example.com", updated.Email)
	assert.Equal(t, seeded.Username, updated.Username)
	assert.True(t, updated.UpdatedAt.After(seeded.UpdatedAt) || updated.UpdatedAt.Equal(seeded.UpdatedAt))
}

func TestUpdateUserRejectsTakenEmail(t *testing.T) {
	svc, users := newUserFixture(t)
	addUserWithRole(users, "holder", model.RoleUser, time.Now().UTC())
	seeded := addUserWithRole(users, "zack", model.RoleUser, time.Now().UTC())

	taken := "holder@example.com"
	_, err := svc.Update(context.Background(), seeded.ID, model.UpdateUserRequest{Email: &taken}, "admin-1")
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestUpdateAndDeleteRejectMalformedID(t *testing.T) {
	svc, users := newUserFixture(t)
	addUserWithRole(users, "safe", model.RoleUser, time.Now().UTC())

	name := "new"
	_, err := svc.Update(context.Background(), "abc", model.UpdateUserRequest{Username: &name}, "admin-1")
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = svc.Delete(context.Background(), "abc", "admin-1")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc, _ := newUserFixture(t)

	name := "new"
	_, err := svc.Update(context.Background(), "missing-id", model.UpdateUserRequest{Username: &name}, "admin-1")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestDeleteUserReturnsDeletedRecord(t *testing.T) {
	svc, users := newUserFixture(t)
	seeded := addUserWithRole(users, "victim", model.RoleUser, time.Now().UTC())

	deleted, err := svc.Delete(context.Background(), seeded.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, seeded.Username, deleted.Username)

	_, err = users.FindByID(context.Background(), seeded.ID)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}
