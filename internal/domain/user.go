package domain

import "time"

// User represents a registered account in the local identity domain.
type User struct {
	ID           string
	Name         string
	PasswordHash string // bcrypt record; the plaintext is never stored
	IsAdmin      bool
	CreatedAt    time.Time
	DeletedAt    *time.Time // soft delete; owned keys are revoked in the same transaction
}

// Deleted reports whether the user has been soft-deleted.
func (u *User) Deleted() bool { return u.DeletedAt != nil }

// RegisterUserRequest holds parameters for creating a new user.
type RegisterUserRequest struct {
	Name     string
	Password string
	IsAdmin  bool
}

// Validate checks that the request is well-formed.
func (r *RegisterUserRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("user name is required")
	}
	if len(r.Password) < 6 {
		return ErrValidation("password must be at least 6 characters")
	}
	return nil
}
