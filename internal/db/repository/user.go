package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"boardhub/internal/domain"
)

// UserRepo implements domain.UserRepository on SQLite.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, password_hash, is_admin, created_at, deleted_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	var isAdmin int64
	var deletedAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &isAdmin, &u.CreatedAt, &deletedAt); err != nil {
		return nil, err
	}
	u.IsAdmin = isAdmin != 0
	u.DeletedAt = timePtr(deletedAt)
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.PasswordHash, boolToInt(u.IsAdmin), u.CreatedAt,
	)
	return mapDBError(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return u, nil
}

func (r *UserRepo) GetByName(ctx context.Context, name string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE name = ?`, name)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY created_at LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, mapDBError(err)
		}
		users = append(users, *u)
	}
	return users, total, mapDBError(rows.Err())
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`, hash, id)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "user %s not found", id)
}

func (r *UserRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_admin = ? WHERE id = ? AND deleted_at IS NULL`, boolToInt(isAdmin), id)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "user %s not found", id)
}

// SoftDelete marks the user deleted and revokes every key they own in a
// single transaction, so no credential of a deleted user remains usable.
func (r *UserRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapDBError(err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, at, id)
	if err != nil {
		return mapDBError(err)
	}
	if err := requireRowAffected(res, "user %s not found", id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE api_keys SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`, at, id); err != nil {
		return mapDBError(err)
	}

	return mapDBError(tx.Commit())
}

func requireRowAffected(res sql.Result, format string, args ...interface{}) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound(format, args...)
	}
	return nil
}
