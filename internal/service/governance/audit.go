// Package governance provides audit-trail services.
package governance

import (
	"context"

	"boardhub/internal/domain"
)

// AuditService exposes read access to the audit trail.
type AuditService struct {
	repo domain.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List returns audit entries matching the filter. Admin only: audit reasons
// carry the internal failure taxonomy that must not reach ordinary callers.
func (s *AuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return nil, 0, domain.ErrAccessDenied("authentication required")
	}
	if !p.User.IsAdmin {
		return nil, 0, domain.ErrAuth(domain.ReasonForbidden, "admin privileges required")
	}
	return s.repo.List(ctx, filter)
}
