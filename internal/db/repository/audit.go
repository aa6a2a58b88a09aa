package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"boardhub/internal/domain"
)

// AuditRepo implements domain.AuditRepository on SQLite.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (principal_name, action, status, reason, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.PrincipalName, e.Action, e.Status, e.Reason, e.CreatedAt,
	)
	return mapDBError(err)
}

func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	where, args := buildAuditWhere(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	listArgs := append(append([]any{}, args...), filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal_name, action, status, reason, created_at FROM audit_log`+
			where+` ORDER BY id DESC LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.PrincipalName, &e.Action, &e.Status, &e.Reason, &e.CreatedAt); err != nil {
			return nil, 0, mapDBError(err)
		}
		entries = append(entries, e)
	}
	return entries, total, mapDBError(rows.Err())
}

func buildAuditWhere(filter domain.AuditFilter) (string, []any) {
	var clauses []string
	var args []any
	if filter.PrincipalName != nil {
		clauses = append(clauses, "principal_name = ?")
		args = append(args, *filter.PrincipalName)
	}
	if filter.Action != nil {
		clauses = append(clauses, "action = ?")
		args = append(args, *filter.Action)
	}
	if filter.Status != nil {
		clauses = append(clauses, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, *filter.Since)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
