package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-user-api/internal/event"
	"go-user-api/internal/model"
)

// AdminService implements moderation: opening and closing ban windows.
type AdminService struct {
	users UserStore
	bans  BanStore
	bus   event.Bus
}

func NewAdminService(users UserStore, bans BanStore, bus event.Bus) *AdminService {
	return &AdminService{users: users, bans: bans, bus: bus}
}

// Ban opens a ban window for the named user. StartAt defaults to now; the
// end is computed from the normalized start, so a future-dated ban with a
// duration ends duration after that future start. No duration means
// open-ended. The acting admin comes from the authenticated request, not
// the body.
func (s *AdminService) Ban(ctx context.Context, req model.BanRequest, adminID string) (model.BanRecord, error) {
	target, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return model.BanRecord{}, err
	}

	now := time.Now().UTC()
	startAt := now
	if req.StartAt != nil {
		startAt = req.StartAt.UTC()
	}

	var endAt *time.Time
	if req.Duration != nil && req.Duration.Duration() > 0 {
		t := startAt.Add(req.Duration.Duration())
		endAt = &t
	}

	ban := model.Ban{
		ID:        uuid.NewString(),
		UserID:    target.ID,
		AdminID:   adminID,
		StartAt:   startAt,
		EndAt:     endAt,
		Reason:    req.Reason,
		CreatedAt: now,
	}

	if err := s.bans.Create(ctx, ban); err != nil {
		return model.BanRecord{}, err
	}

	s.publish(event.New(event.TypeUserBanned, target.ID, adminID, req.Reason))

	return model.BanRecord{
		User:    target.Public(),
		StartAt: ban.StartAt,
		EndAt:   ban.EndAt,
		Reason:  ban.Reason,
	}, nil
}

// Unban closes every active ban for the named user. The returned flag is
// false when the user had no active ban to close.
func (s *AdminService) Unban(ctx context.Context, username string, adminID string) (bool, error) {
	target, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}

	closed, err := s.bans.CloseActive(ctx, target.ID, time.Now().UTC())
	if err != nil {
		return false, err
	}

	if closed > 0 {
		s.publish(event.New(event.TypeUserUnbanned, target.ID, adminID, ""))
	}
	return closed > 0, nil
}

func (s *AdminService) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
