package domain

import (
	"context"
	"time"
)

// UserRepository provides persistence for user records.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
	List(ctx context.Context, page PageRequest) ([]User, int64, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	// SoftDelete marks the user deleted and revokes all of their API keys
	// in the same transaction.
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// APIKeyRepository provides persistence for API key records.
type APIKeyRepository interface {
	Create(ctx context.Context, k *APIKey) error
	GetByID(ctx context.Context, id string) (*APIKey, error)
	// GetByPrefix returns all keys sharing a lookup prefix. Callers verify
	// the secret hash against each candidate in constant time.
	GetByPrefix(ctx context.Context, prefix string) ([]APIKey, error)
	ListByUser(ctx context.Context, userID string, page PageRequest) ([]APIKey, int64, error)
	// Revoke sets revoked_at if it is still unset. Returns NotFoundError if
	// the key does not exist; revoking an already-revoked key is a no-op.
	Revoke(ctx context.Context, id string, at time.Time) error
	// DeleteExpired removes keys whose expires_at has passed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// GroupRepository provides persistence for groups and membership.
type GroupRepository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	GetByName(ctx context.Context, name string) (*Group, error)
	List(ctx context.Context, page PageRequest) ([]Group, int64, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, m *GroupMember) error
	RemoveMember(ctx context.Context, m *GroupMember) error
	ListMembers(ctx context.Context, groupID string) ([]GroupMember, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// AuditRepository provides persistence for audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}

// MembershipResolver answers group-membership questions for the
// authorization guard. Implemented by the group repository.
type MembershipResolver interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}
