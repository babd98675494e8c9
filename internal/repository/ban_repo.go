package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-user-api/internal/model"
)

type BanRepository struct {
	pool *pgxpool.Pool
}

func NewBanRepository(pool *pgxpool.Pool) *BanRepository {
	return &BanRepository{pool: pool}
}

func (r *BanRepository) Create(ctx context.Context, ban model.Ban) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bans (id, user_id, admin_id, start_at, end_at, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ban.ID, ban.UserID, ban.AdminID, ban.StartAt, ban.EndAt, ban.Reason, ban.CreatedAt)
	if err != nil {
		return fmt.Errorf("create ban: %w", err)
	}
	return nil
}

// ActiveForUser returns the bans covering the instant now: started at or
// before it, not yet ended (or open-ended). Several bans may overlap.
func (r *BanRepository) ActiveForUser(ctx context.Context, userID string, now time.Time) ([]model.Ban, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, admin_id, start_at, end_at, reason, created_at
		 FROM bans
		 WHERE user_id = $1 AND start_at <= $2 AND (end_at IS NULL OR end_at > $2)
		 ORDER BY start_at`,
		userID, now)
	if err != nil {
		return nil, fmt.Errorf("active bans for user: %w", err)
	}
	defer rows.Close()

	var bans []model.Ban
	for rows.Next() {
		var b model.Ban
		if err := rows.Scan(&b.ID, &b.UserID, &b.AdminID, &b.StartAt, &b.EndAt, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ban: %w", err)
		}
		bans = append(bans, b)
	}
	return bans, rows.Err()
}

// CloseActive ends every currently active ban for the user at now and
// reports how many rows were closed. Zero means the user was not banned.
func (r *BanRepository) CloseActive(ctx context.Context, userID string, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bans SET end_at = $2
		 WHERE user_id = $1 AND start_at <= $2 AND (end_at IS NULL OR end_at > $2)`,
		userID, now)
	if err != nil {
		return 0, fmt.Errorf("close active bans: %w", err)
	}
	return tag.RowsAffected(), nil
}
