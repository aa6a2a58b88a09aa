package security

import (
	"context"
	"fmt"
	"log/slog"

	"boardhub/internal/domain"
)

// Guard decides allow/deny for a resolved principal against a resource.
// Ownership and sharing facts come from the resource-owning collaborator;
// the guard never mutates them.
type Guard struct {
	members domain.MembershipResolver
	audit   domain.AuditRepository
	logger  *slog.Logger
}

// NewGuard creates a new authorization Guard.
func NewGuard(members domain.MembershipResolver, audit domain.AuditRepository, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{members: members, audit: audit, logger: logger}
}

// memberActions are the actions a group member may perform on a resource
// shared with that group. Delete and manage stay owner-only.
var memberActions = map[domain.Action]bool{
	domain.ActionView: true,
	domain.ActionEdit: true,
}

// Authorize evaluates the rule set in order: admin, owner, group membership,
// deny. Both principal variants flow through the same checks — only the
// embedded User matters here; the credential kind is logged, never consulted.
func (g *Guard) Authorize(ctx context.Context, p *domain.Principal, action domain.Action, res domain.Resource) error {
	if p == nil {
		return domain.ErrAuth(domain.ReasonMissingCredential, "no principal")
	}

	if p.User.IsAdmin {
		return nil
	}

	if res.OwnerID != "" && res.OwnerID == p.User.ID {
		return nil
	}

	if memberActions[action] {
		for _, groupID := range res.SharedWith {
			ok, err := g.members.IsMember(ctx, groupID, p.User.ID)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
	}

	g.logDenial(ctx, p, action, res)
	return domain.ErrAuth(domain.ReasonForbidden,
		"%s on %s %s denied", action, res.Type, res.ID)
}

func (g *Guard) logDenial(ctx context.Context, p *domain.Principal, action domain.Action, res domain.Resource) {
	g.logger.Info("authorization denied",
		"principal", p.User.Name,
		"credential", string(p.Kind),
		"action", string(action),
		"resource", res.Type+"/"+res.ID,
	)
	_ = g.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: p.User.Name,
		Action:        fmt.Sprintf("%s(%s=%s)", action, res.Type, res.ID),
		Status:        domain.AuditDenied,
		Reason:        string(domain.ReasonForbidden),
	})
}
