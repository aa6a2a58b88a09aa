package security

import (
	"context"
	"fmt"

	"boardhub/internal/domain"
)

// GroupService manages the named member sets that supply shared-resource
// ACL facts to the Guard.
type GroupService struct {
	groups domain.GroupRepository
	audit  domain.AuditRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(groups domain.GroupRepository, audit domain.AuditRepository) *GroupService {
	return &GroupService{groups: groups, audit: audit}
}

// Create validates and persists a new group. Admin only.
func (s *GroupService) Create(ctx context.Context, req domain.CreateGroupRequest) (*domain.Group, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	group := &domain.Group{
		ID:          domain.NewID(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}

	s.logAudit(ctx, fmt.Sprintf("CREATE_GROUP(name=%s)", req.Name))
	return group, nil
}

// GetByID returns a group by ID.
func (s *GroupService) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	return s.groups.GetByID(ctx, id)
}

// List returns a paginated list of groups.
func (s *GroupService) List(ctx context.Context, page domain.PageRequest) ([]domain.Group, int64, error) {
	return s.groups.List(ctx, page)
}

// Delete removes a group and its memberships. Admin only.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.groups.Delete(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, fmt.Sprintf("DELETE_GROUP(id=%s)", id))
	return nil
}

// AddMember adds a user to a group. Admin only.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.groups.AddMember(ctx, &domain.GroupMember{GroupID: groupID, UserID: userID}); err != nil {
		return err
	}
	s.logAudit(ctx, fmt.Sprintf("ADD_GROUP_MEMBER(group=%s, user=%s)", groupID, userID))
	return nil
}

// RemoveMember removes a user from a group. Admin only.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.groups.RemoveMember(ctx, &domain.GroupMember{GroupID: groupID, UserID: userID}); err != nil {
		return err
	}
	s.logAudit(ctx, fmt.Sprintf("REMOVE_GROUP_MEMBER(group=%s, user=%s)", groupID, userID))
	return nil
}

// ListMembers returns the members of a group.
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	return s.groups.ListMembers(ctx, groupID)
}

func (s *GroupService) logAudit(ctx context.Context, action string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: callerName(ctx),
		Action:        action,
		Status:        domain.AuditAllowed,
	})
}
