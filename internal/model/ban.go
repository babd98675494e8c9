package model

import "time"

// Ban is a moderation window during which a user's access is revoked no
// matter how fresh their credentials are. EndAt nil means open-ended.
//
// A ban is active at time t iff StartAt <= t and (EndAt is nil or
// EndAt > t): inclusive start, exclusive end.
type Ban struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	AdminID   string     `json:"adminId"`
	StartAt   time.Time  `json:"startAt"`
	EndAt     *time.Time `json:"endAt"`
	Reason    string     `json:"reason"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (b Ban) ActiveAt(t time.Time) bool {
	if b.StartAt.After(t) {
		return false
	}
	return b.EndAt == nil || b.EndAt.After(t)
}

// BanInfo is the subset of a ban surfaced to the banned user.
type BanInfo struct {
	EndAt  *time.Time `json:"endAt"`
	Reason string     `json:"reason"`
}

func (b Ban) Info() BanInfo {
	return BanInfo{EndAt: b.EndAt, Reason: b.Reason}
}

// BanRecord is the admin-facing view returned after a successful ban.
type BanRecord struct {
	User    PublicUser `json:"user"`
	StartAt time.Time  `json:"startAt"`
	EndAt   *time.Time `json:"endAt"`
	Reason  string     `json:"reason"`
}
