package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-user-api/internal/model"
)

type fakeBanChecker struct {
	bans map[string][]model.Ban
}

func (f *fakeBanChecker) ActiveForUser(_ context.Context, userID string, now time.Time) ([]model.Ban, error) {
	var active []model.Ban
	for _, b := range f.bans[userID] {
		if b.ActiveAt(now) {
			active = append(active, b)
		}
	}
	return active, nil
}

type fakeRoleLookup struct {
	roles map[string]model.Role
	err   error
}

func (f *fakeRoleLookup) RoleOf(_ context.Context, id string) (model.Role, error) {
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[id]
	if !ok {
		return "", model.ErrUserNotFound
	}
	return role, nil
}

func identified(userID string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	if userID != "" {
		req = req.WithContext(withUserID(req.Context(), userID))
	}
	return httptest.NewRecorder(), req
}

func TestBanGateBlocksActiveBan(t *testing.T) {
	end := time.Now().UTC().Add(time.Hour)
	gate := NewBanGate(&fakeBanChecker{bans: map[string][]model.Ban{
		"u-1": {{UserID: "u-1", StartAt: time.Now().UTC().Add(-time.Hour), EndAt: &end, Reason: "spam"}},
	}})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec, req := identified("u-1")
	gate.Check(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User currently banned", body.Error)
	require.Len(t, body.Bans, 1)
	assert.Equal(t, "spam", body.Bans[0].Reason)
}

func TestBanGatePassesUnbannedUser(t *testing.T) {
	gate := NewBanGate(&fakeBanChecker{bans: map[string][]model.Ban{}})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec, req := identified("u-2")
	gate.Check(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBanGateIgnoresEndedBan(t *testing.T) {
	end := time.Now().UTC().Add(-time.Minute)
	gate := NewBanGate(&fakeBanChecker{bans: map[string][]model.Ban{
		"u-3": {{UserID: "u-3", StartAt: time.Now().UTC().Add(-time.Hour), EndAt: &end, Reason: "old"}},
	}})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec, req := identified("u-3")
	gate.Check(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBanGateRequiresIdentity(t *testing.T) {
	gate := NewBanGate(&fakeBanChecker{})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec, req := identified("")
	gate.Check(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGateAllowsMatchingRole(t *testing.T) {
	gate := NewRoleGate(&fakeRoleLookup{roles: map[string]model.Role{"u-1": model.RoleAdmin}})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec, req := identified("u-1")
	gate.Require(model.RoleAdmin)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleGateRejectsOtherRole(t *testing.T) {
	gate := NewRoleGate(&fakeRoleLookup{roles: map[string]model.Role{"u-1": model.RoleUser}})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec, req := identified("u-1")
	gate.Require(model.RoleAdmin)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ADMIN role required", body.Error)
}

func TestRoleGateStoreFailureIsNotForbidden(t *testing.T) {
	gate := NewRoleGate(&fakeRoleLookup{err: errors.New("connection refused")})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec, req := identified("u-1")
	gate.Require(model.RoleAdmin)(next).ServeHTTP(rec, req)

	// An unreachable store must not read as an authorization verdict.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Unexpected server error", body.Error)
}

func TestRoleGateRejectsUnknownUser(t *testing.T) {
	gate := NewRoleGate(&fakeRoleLookup{roles: map[string]model.Role{}})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec, req := identified("ghost")
	gate.Require(model.RoleAdmin)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
