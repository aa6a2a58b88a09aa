package domain

import "time"

// APIKey represents a long-lived opaque credential for programmatic access.
type APIKey struct {
	ID        string
	UserID    string
	Name      string
	KeyPrefix string // first 8 chars of the raw secret, used for lookup
	KeyHash   string // SHA-256 of the raw secret; the raw secret is never stored
	ExpiresAt *time.Time
	CreatedAt time.Time
	RevokedAt *time.Time // revocation is monotonic, never reversed
}

// Revoked reports whether the key has been revoked.
func (k *APIKey) Revoked() bool { return k.RevokedAt != nil }

// Expired reports whether the key is past its optional expiry at the given time.
func (k *APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && !now.Before(*k.ExpiresAt)
}

// CreateAPIKeyRequest holds parameters for creating a new API key.
type CreateAPIKeyRequest struct {
	UserID    string
	Name      string
	ExpiresAt *time.Time
}

// Validate checks that the request is well-formed.
func (r *CreateAPIKeyRequest) Validate() error {
	if r.UserID == "" {
		return ErrValidation("user_id is required")
	}
	if r.Name == "" {
		return ErrValidation("api key name is required")
	}
	return nil
}
