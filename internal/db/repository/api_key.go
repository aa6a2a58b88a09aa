package repository

import (
	"context"
	"database/sql"
	"time"

	"boardhub/internal/domain"
)

// APIKeyRepo implements domain.APIKeyRepository on SQLite.
type APIKeyRepo struct {
	db *sql.DB
}

// NewAPIKeyRepo creates a new APIKeyRepo.
func NewAPIKeyRepo(db *sql.DB) *APIKeyRepo {
	return &APIKeyRepo{db: db}
}

const apiKeyColumns = `id, user_id, name, key_prefix, key_hash, expires_at, created_at, revoked_at`

func scanAPIKey(row interface{ Scan(...any) error }) (*domain.APIKey, error) {
	var k domain.APIKey
	var expiresAt, revokedAt sql.NullTime
	if err := row.Scan(&k.ID, &k.UserID, &k.Name, &k.KeyPrefix, &k.KeyHash, &expiresAt, &k.CreatedAt, &revokedAt); err != nil {
		return nil, err
	}
	k.ExpiresAt = timePtr(expiresAt)
	k.RevokedAt = timePtr(revokedAt)
	return &k, nil
}

func (r *APIKeyRepo) Create(ctx context.Context, k *domain.APIKey) error {
	if k.CreatedAt.IsZero() {
		k.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (id, user_id, name, key_prefix, key_hash, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.UserID, k.Name, k.KeyPrefix, k.KeyHash, nullTime(k.ExpiresAt), k.CreatedAt,
	)
	return mapDBError(err)
}

func (r *APIKeyRepo) GetByID(ctx context.Context, id string) (*domain.APIKey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE id = ?`, id)
	k, err := scanAPIKey(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return k, nil
}

// GetByPrefix returns every key sharing a lookup prefix. The prefix narrows
// the candidate set to a handful of rows so the caller never hashes against
// the whole table; secret verification stays with the caller.
func (r *APIKeyRepo) GetByPrefix(ctx context.Context, prefix string) ([]domain.APIKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_prefix = ?`, prefix)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var keys []domain.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, mapDBError(err)
		}
		keys = append(keys, *k)
	}
	return keys, mapDBError(rows.Err())
}

func (r *APIKeyRepo) ListByUser(ctx context.Context, userID string, page domain.PageRequest) ([]domain.APIKey, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM api_keys WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE user_id = ? ORDER BY created_at LIMIT ? OFFSET ?`,
		userID, page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var keys []domain.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, 0, mapDBError(err)
		}
		keys = append(keys, *k)
	}
	return keys, total, mapDBError(rows.Err())
}

// Revoke sets revoked_at when it is still unset. The guarded UPDATE is a
// single statement, so a resolve racing a revoke observes either the fully
// valid or the fully revoked row, never an intermediate state.
func (r *APIKeyRepo) Revoke(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`, at, id)
	if err != nil {
		return mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapDBError(err)
	}
	if n == 0 {
		// Distinguish "missing" from "already revoked": the latter is a no-op.
		var exists int64
		if err := r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM api_keys WHERE id = ?`, id).Scan(&exists); err != nil {
			return mapDBError(err)
		}
		if exists == 0 {
			return domain.ErrNotFound("api key %s not found", id)
		}
	}
	return nil
}

func (r *APIKeyRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM api_keys WHERE expires_at IS NOT NULL AND expires_at <= ?`, now)
	if err != nil {
		return 0, mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapDBError(err)
	}
	return n, nil
}
