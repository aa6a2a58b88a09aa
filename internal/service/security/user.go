package security

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"boardhub/internal/domain"
)

// UserService provides account management: registration, password
// authentication, password change, role change, and soft deletion.
type UserService struct {
	users  domain.UserRepository
	hasher *PasswordHasher
	audit  domain.AuditRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, hasher *PasswordHasher, audit domain.AuditRepository, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{users: users, hasher: hasher, audit: audit, logger: logger, now: time.Now}
}

// Register creates a new user with a freshly salted password hash.
func (s *UserService) Register(ctx context.Context, req domain.RegisterUserRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           domain.NewID(),
		Name:         req.Name,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logAudit(ctx, user.Name, "REGISTER_USER", domain.AuditAllowed, "")
	return user, nil
}

// AuthenticateByPassword checks login credentials. The failure is the same
// AuthError whether the user is missing, deleted, or the password is wrong —
// no probing which of the three applied.
func (s *UserService) AuthenticateByPassword(ctx context.Context, name, password string) (*domain.User, error) {
	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		if domain.IsAuthReason(err, domain.ReasonUnavailable) {
			return nil, err
		}
		s.logAudit(ctx, name, "LOGIN", domain.AuditDenied, string(domain.ReasonUnknownSubject))
		return nil, domain.ErrAuth(domain.ReasonUnknownSubject, "invalid credentials")
	}
	if user.Deleted() {
		s.logAudit(ctx, name, "LOGIN", domain.AuditDenied, string(domain.ReasonUnknownSubject))
		return nil, domain.ErrAuth(domain.ReasonUnknownSubject, "invalid credentials")
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logAudit(ctx, name, "LOGIN", domain.AuditDenied, string(domain.ReasonInvalidSignature))
		return nil, domain.ErrAuth(domain.ReasonInvalidSignature, "invalid credentials")
	}

	s.logAudit(ctx, name, "LOGIN", domain.AuditAllowed, "")
	return user, nil
}

// ChangePassword re-hashes with a fresh salt after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return domain.ErrAuth(domain.ReasonInvalidSignature, "current password does not match")
	}
	if len(next) < 6 {
		return domain.ErrValidation("password must be at least 6 characters")
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	s.logAudit(ctx, user.Name, "CHANGE_PASSWORD", domain.AuditAllowed, "")
	return nil
}

// GetByID returns a user record. Admins can read anyone; everyone else can
// read only their own record, so user IDs are not enumerable by any
// authenticated caller.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := requireAdminOrSelf(ctx, id); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// List returns a paginated list of users. Admin only.
func (s *UserService) List(ctx context.Context, page domain.PageRequest) ([]domain.User, int64, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, page)
}

// SetAdmin updates the admin flag of a user. Admin only.
func (s *UserService) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.users.SetAdmin(ctx, id, isAdmin); err != nil {
		return err
	}
	action := "SET_ADMIN"
	if !isAdmin {
		action = "UNSET_ADMIN"
	}
	s.logAudit(ctx, callerName(ctx), fmt.Sprintf("%s(id=%s)", action, id), domain.AuditAllowed, "")
	return nil
}

// Delete soft-deletes a user and cascade-revokes their API keys. Admin only.
// The record is kept while owned resources still reference it.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.users.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		return err
	}
	s.logAudit(ctx, callerName(ctx), fmt.Sprintf("DELETE_USER(id=%s)", id), domain.AuditAllowed, "")
	return nil
}

func (s *UserService) logAudit(ctx context.Context, principal, action, status, reason string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: principal,
		Action:        action,
		Status:        status,
		Reason:        reason,
	})
}
