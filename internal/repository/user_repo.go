package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-user-api/internal/model"
)

const userColumns = `id, username, email, firstname, lastname, password_hash, role, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Firstname, &u.Lastname,
		&u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id::text = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, strings.TrimSpace(username)))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByLoginOrEmail returns every user whose username or email matches
// login. More than one row is possible when a username collides with
// another account's email; the caller decides how to treat that.
func (r *UserRepository) FindByLoginOrEmail(ctx context.Context, login string) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`,
		strings.TrimSpace(login))
	if err != nil {
		return nil, fmt.Errorf("find users by login: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, strings.TrimSpace(username)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, firstname, lastname, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Username, u.Email, u.Firstname, u.Lastname, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u model.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET username = $2, email = $3, firstname = $4, lastname = $5, updated_at = $6
		 WHERE id::text = $1`,
		u.ID, u.Username, u.Email, u.Firstname, u.Lastname, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`DELETE FROM users WHERE id::text = $1 RETURNING `+userColumns, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("delete user: %w", err)
	}
	return u, nil
}

// RoleOf is the live role lookup used by the role gate on every request.
func (r *UserRepository) RoleOf(ctx context.Context, id string) (model.Role, error) {
	var role model.Role
	err := r.pool.QueryRow(ctx, `SELECT role FROM users WHERE id::text = $1`, id).Scan(&role)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("role of user: %w", err)
	}
	return role, nil
}

// filterClause builds the WHERE clause for a user filter. Only non-empty
// fields become conditions, so the planner never sees a parameter compared
// against an empty string. The uuid column is compared through text: path
// and query ids are client input and must not abort the query with a
// uuid parse error.
func filterClause(filter model.UserFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(expr string, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	add("id::text = $%d", filter.ID)
	add("username = $%d", filter.Username)
	add("email = $%d", filter.Email)
	add("firstname = $%d", filter.Firstname)
	add("lastname = $%d", filter.Lastname)
	add("role = $%d", string(filter.Role))

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *UserRepository) List(ctx context.Context, filter model.UserFilter, limit int, offset int) ([]model.User, error) {
	where, args := filterClause(filter)
	query := fmt.Sprintf(`SELECT `+userColumns+` FROM users%s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context, filter model.UserFilter) (int, error) {
	where, args := filterClause(filter)

	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
