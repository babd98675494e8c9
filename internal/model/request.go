package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type RegisterRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Firstname *string `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Password  string  `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Lastname, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 200)),
	)
}

// CreateUserRequest shares the register shape; admins create users through
// the same contract.
type CreateUserRequest = RegisterRequest

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Lastname, validation.NilOrNotEmpty, validation.Length(1, 200)),
	)
}

func (r UpdateUserRequest) Empty() bool {
	return r.Username == nil && r.Email == nil && r.Firstname == nil && r.Lastname == nil
}

type BanRequest struct {
	Username  string       `json:"username"`
	AdminName string       `json:"adminName"`
	StartAt   *time.Time   `json:"startAt"`
	Duration  *BanDuration `json:"duration"`
	Reason    string       `json:"reason"`
}

func (r BanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Reason, validation.Required, validation.Length(1, 500)),
	)
}

type UnbanRequest struct {
	Username string `json:"username"`
}

func (r UnbanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
	)
}

// BanDuration accepts either a bare number of milliseconds or a duration
// string such as "90m", "12h", "1d" or "2w".
type BanDuration time.Duration

func (d *BanDuration) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := parseBanDuration(s)
		if err != nil {
			return err
		}
		*d = BanDuration(parsed)
		return nil
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ban duration %q", raw)
	}
	*d = BanDuration(time.Duration(millis) * time.Millisecond)
	return nil
}

func (d BanDuration) Duration() time.Duration {
	return time.Duration(d)
}

func parseBanDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty ban duration")
	}

	// Day and week suffixes are not understood by time.ParseDuration.
	for suffix, unit := range map[string]time.Duration{"d": 24 * time.Hour, "w": 7 * 24 * time.Hour} {
		if strings.HasSuffix(s, suffix) {
			n, err := strconv.ParseFloat(strings.TrimSuffix(s, suffix), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid ban duration %q", s)
			}
			return time.Duration(n * float64(unit)), nil
		}
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ban duration %q", s)
	}
	return parsed, nil
}
