// Package api provides HTTP handlers for the auth service REST API.
package api

import (
	"net/http"
	"strconv"
	"time"

	"boardhub/internal/domain"
	"boardhub/internal/service/governance"
	"boardhub/internal/service/security"
)

// APIHandler holds the service dependencies for all HTTP endpoints.
type APIHandler struct {
	users   *security.UserService
	tokens  *security.TokenService
	apiKeys *security.APIKeyService
	groups  *security.GroupService
	guard   *security.Guard
	audit   *governance.AuditService
}

// NewHandler creates a new APIHandler with all required service dependencies.
func NewHandler(
	users *security.UserService,
	tokens *security.TokenService,
	apiKeys *security.APIKeyService,
	groups *security.GroupService,
	guard *security.Guard,
	audit *governance.AuditService,
) *APIHandler {
	return &APIHandler{
		users:   users,
		tokens:  tokens,
		apiKeys: apiKeys,
		groups:  groups,
		guard:   guard,
		audit:   audit,
	}
}

// --- helpers ---

// pageFromQuery extracts a PageRequest from optional max_results/page_token
// query parameters.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if v := r.URL.Query().Get("max_results"); v != "" {
		// Invalid values fall through to the default page size.
		if n, err := strconv.Atoi(v); err == nil {
			p.MaxResults = n
		}
	}
	return p
}

// === Mapping helpers ===

// User is the public representation of a user account. Password hashes never
// leave the service layer.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IsAdmin   bool       `json:"is_admin"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// APIKeyMeta is the public representation of an API key. It carries the
// display prefix only — the secret is returned exactly once, at creation.
type APIKeyMeta struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	KeyPrefix string     `json:"key_prefix"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// Group is the public representation of a group.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditEntry is the public representation of an audit log entry.
type AuditEntry struct {
	ID            int64     `json:"id"`
	PrincipalName string    `json:"principal_name"`
	Action        string    `json:"action"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func userToAPI(u *domain.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		DeletedAt: u.DeletedAt,
	}
}

func apiKeyToAPI(k domain.APIKey) APIKeyMeta {
	return APIKeyMeta{
		ID:        k.ID,
		Name:      k.Name,
		KeyPrefix: k.KeyPrefix,
		CreatedAt: k.CreatedAt,
		ExpiresAt: k.ExpiresAt,
		RevokedAt: k.RevokedAt,
	}
}

func groupToAPI(g domain.Group) Group {
	return Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
	}
}

func auditEntryToAPI(e domain.AuditEntry) AuditEntry {
	return AuditEntry{
		ID:            e.ID,
		PrincipalName: e.PrincipalName,
		Action:        e.Action,
		Status:        e.Status,
		Reason:        e.Reason,
		CreatedAt:     e.CreatedAt,
	}
}

// optStr returns a pointer to the string if non-empty, otherwise nil.
func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
