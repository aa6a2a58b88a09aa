package security

import (
	"context"

	"boardhub/internal/domain"
)

// callerName returns the authenticated caller's name, or "anonymous" when
// no principal is attached to the context.
func callerName(ctx context.Context) string {
	if p, ok := domain.PrincipalFromContext(ctx); ok {
		return p.User.Name
	}
	return "anonymous"
}

// requireAdminOrSelf returns an error unless the context principal is an
// admin or is the user identified by id.
func requireAdminOrSelf(ctx context.Context, id string) error {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return domain.ErrAccessDenied("authentication required")
	}
	if !p.User.IsAdmin && p.User.ID != id {
		return domain.ErrAuth(domain.ReasonForbidden, "not permitted to view user %s", id)
	}
	return nil
}

// requireAdmin returns an error unless the context principal is an admin.
func requireAdmin(ctx context.Context) error {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return domain.ErrAccessDenied("authentication required")
	}
	if !p.User.IsAdmin {
		return domain.ErrAuth(domain.ReasonForbidden, "admin privileges required")
	}
	return nil
}
