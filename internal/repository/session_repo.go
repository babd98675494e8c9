package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-user-api/internal/model"
)

// SessionRepository persists refresh sessions: one row per user, holding
// the currently valid refresh token and its expiry.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// UpsertByUser installs a new refresh token for the user, replacing any
// previous session row. This is the session reset performed on every
// login or registration.
func (r *SessionRepository) UpsertByUser(ctx context.Context, userID string, tok string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_sessions (user_id, token, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET token = EXCLUDED.token, created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at`,
		userID, tok, time.Now().UTC(), expiresAt)
	if err != nil {
		return fmt.Errorf("upsert refresh session: %w", err)
	}
	return nil
}

// FindByToken resolves a presented refresh token to its session. Expired
// rows are treated as absent.
func (r *SessionRepository) FindByToken(ctx context.Context, tok string) (model.RefreshSession, error) {
	var s model.RefreshSession
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, token, expires_at FROM refresh_sessions
		 WHERE token = $1 AND expires_at > now()`, tok).
		Scan(&s.UserID, &s.Token, &s.ExpiresAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.RefreshSession{}, model.ErrSessionNotFound
	}
	if err != nil {
		return model.RefreshSession{}, fmt.Errorf("find refresh session: %w", err)
	}
	return s, nil
}

// Rotate swaps oldToken for newToken in a single conditional update. The
// write is keyed on the old token still being current, so of two renewals
// racing with the same stale token only the first succeeds; the second
// sees zero rows and fails with ErrSessionNotFound.
func (r *SessionRepository) Rotate(ctx context.Context, oldToken string, newToken string, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE refresh_sessions SET token = $2, expires_at = $3 WHERE token = $1`,
		oldToken, newToken, expiresAt)
	if err != nil {
		return fmt.Errorf("rotate refresh session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, tok string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_sessions WHERE token = $1`, tok)
	if err != nil {
		return fmt.Errorf("delete refresh session: %w", err)
	}
	return nil
}

// CleanExpired removes stale rows. Run periodically by the app; rotation
// correctness never depends on it.
func (r *SessionRepository) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("clean expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
