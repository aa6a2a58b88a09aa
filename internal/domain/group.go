package domain

import "time"

// Group represents a named collection of users supplying shared-resource
// ACL facts to the authorization guard.
type Group struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// GroupMember represents the membership of a user in a group.
type GroupMember struct {
	GroupID string
	UserID  string
}

// CreateGroupRequest holds parameters for creating a new group.
type CreateGroupRequest struct {
	Name        string
	Description string
}

// Validate checks that the request is well-formed.
func (r *CreateGroupRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("group name is required")
	}
	return nil
}
