package repository

import (
	"context"
	"database/sql"
	"time"

	"boardhub/internal/domain"
)

// GroupRepo implements domain.GroupRepository on SQLite.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo creates a new GroupRepo.
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

func scanGroup(row interface{ Scan(...any) error }) (*domain.Group, error) {
	var g domain.Group
	var description sql.NullString
	if err := row.Scan(&g.ID, &g.Name, &description, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.Description = description.String
	return &g, nil
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.Name, sql.NullString{String: g.Description, Valid: g.Description != ""}, g.CreatedAt,
	)
	return mapDBError(err)
}

func (r *GroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM groups WHERE id = ?`, id)
	g, err := scanGroup(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return g, nil
}

func (r *GroupRepo) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM groups WHERE name = ?`, name)
	g, err := scanGroup(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return g, nil
}

func (r *GroupRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Group, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM groups ORDER BY created_at LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var groups []domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, mapDBError(err)
		}
		groups = append(groups, *g)
	}
	return groups, total, mapDBError(rows.Err())
}

func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "group %s not found", id)
}

func (r *GroupRepo) AddMember(ctx context.Context, m *domain.GroupMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`, m.GroupID, m.UserID)
	return mapDBError(err)
}

func (r *GroupRepo) RemoveMember(ctx context.Context, m *domain.GroupMember) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`, m.GroupID, m.UserID)
	return mapDBError(err)
}

func (r *GroupRepo) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT group_id, user_id FROM group_members WHERE group_id = ?`, groupID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var members []domain.GroupMember
	for rows.Next() {
		var m domain.GroupMember
		if err := rows.Scan(&m.GroupID, &m.UserID); err != nil {
			return nil, mapDBError(err)
		}
		members = append(members, m)
	}
	return members, mapDBError(rows.Err())
}

func (r *GroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID).Scan(&count)
	if err != nil {
		return false, mapDBError(err)
	}
	return count > 0, nil
}
