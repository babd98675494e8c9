package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-user-api/internal/event"
	"go-user-api/internal/model"
	"go-user-api/internal/token"
	"go-user-api/pkg/apierror"
)

// AuthService owns the token lifecycle: issuance, verification, rotation
// and the session reset performed on login and registration.
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	bans       BanStore
	access     *token.Signer
	refresh    *token.Signer
	bcryptCost int
	bus        event.Bus
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	bans BanStore,
	access *token.Signer,
	refresh *token.Signer,
	bcryptCost int,
	bus event.Bus,
) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}

	return &AuthService{
		users:      users,
		sessions:   sessions,
		bans:       bans,
		access:     access,
		refresh:    refresh,
		bcryptCost: bcryptCost,
		bus:        bus,
	}
}

// Register creates a user with the USER role and opens their first
// session. Email and username must be unique.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, model.TokenPair, error) {
	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}
	if taken {
		return model.User{}, model.TokenPair{}, apierror.New(apierror.KindConflict, "Email already used", http.StatusUnauthorized)
	}

	taken, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}
	if taken {
		return model.User{}, model.TokenPair{}, apierror.New(apierror.KindConflict, "Username already used", http.StatusUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.User{}, model.TokenPair{}, fmt.Errorf("hash password: %w", err)
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
		return model.User{}, model.TokenPair{}, err
	}

	pair, err := s.Issue(ctx, user.ID)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	s.publish(event.New(event.TypeUserRegistered, user.ID, "", user.Username))
	return user, pair, nil
}

// Login authenticates by username or email. Exactly one account may match
// the presented login; the password is only checked after that resolution,
// and an active ban blocks the session even with a correct password.
func (s *AuthService) Login(ctx context.Context, login string, password string) (model.User, model.TokenPair, error) {
	users, err := s.users.FindByLoginOrEmail(ctx, login)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	switch {
	case len(users) == 0:
		return model.User{}, model.TokenPair{}, apierror.WithDetails(apierror.KindNotFound,
			"Invalid credentials", "No user with this login information", http.StatusNotFound)
	case len(users) > 1:
		return model.User{}, model.TokenPair{}, apierror.WithDetails(apierror.KindConflict,
			"Invalid credentials", "Multiple users have this login information", http.StatusConflict)
	}
	user := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, model.TokenPair{}, apierror.New(apierror.KindUnauthorized, "Invalid password", http.StatusUnauthorized)
	}

	active, err := s.bans.ActiveForUser(ctx, user.ID, time.Now().UTC())
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}
	if len(active) > 0 {
		infos := make([]model.BanInfo, 0, len(active))
		for _, b := range active {
			infos = append(infos, b.Info())
		}
		return model.User{}, model.TokenPair{}, &model.BannedError{Bans: infos}
	}

	pair, err := s.Issue(ctx, user.ID)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	s.publish(event.New(event.TypeUserLoggedIn, user.ID, "", user.Username))
	return user, pair, nil
}

// Issue signs a fresh access+refresh pair and overwrites the user's
// session row in a single store write. If that write fails no tokens are
// returned; there is no partially issued state.
func (s *AuthService) Issue(ctx context.Context, userID string) (model.TokenPair, error) {
	accessToken, err := s.access.Sign(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := s.refresh.Sign(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.refresh.TTL())
	if err := s.sessions.UpsertByUser(ctx, userID, refreshToken, expiresAt); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{UserID: userID, Access: accessToken, Refresh: refreshToken, RefreshExpiresAt: expiresAt}, nil
}

// Renew rotates a refresh credential: the presented token is looked up,
// a new pair is minted for its user, and the stored token is swapped out
// conditionally on the old value still being current. The old token is
// unusable afterwards; presenting it again fails with
// model.ErrSessionNotFound, as does losing a rotation race.
func (s *AuthService) Renew(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	sess, err := s.sessions.FindByToken(ctx, refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	accessToken, err := s.access.Sign(sess.UserID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	newRefresh, err := s.refresh.Sign(sess.UserID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.refresh.TTL())
	if err := s.sessions.Rotate(ctx, refreshToken, newRefresh, expiresAt); err != nil {
		return model.TokenPair{}, err
	}

	s.publish(event.New(event.TypeTokenRefreshed, sess.UserID, "", ""))
	return model.TokenPair{UserID: sess.UserID, Access: accessToken, Refresh: newRefresh, RefreshExpiresAt: expiresAt}, nil
}

// Logout deletes the session row for the presented refresh token and is
// idempotent: an unknown token is already logged out.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	sess, err := s.sessions.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if err := s.sessions.DeleteByToken(ctx, refreshToken); err != nil {
		return err
	}

	s.publish(event.New(event.TypeUserLoggedOut, sess.UserID, "", ""))
	return nil
}

// VerifyAccess validates an access credential. Pure computation.
func (s *AuthService) VerifyAccess(tok string) (token.Claims, error) {
	return s.access.Verify(tok)
}

func (s *AuthService) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
