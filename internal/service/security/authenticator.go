package security

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"boardhub/internal/domain"
)

// Credential schemes accepted in the Authorization header.
const (
	schemeBearer = "Bearer"
	schemeKey    = "Key"
)

// Authenticator is the dispatch façade: it classifies an inbound credential
// by shape and hands it to exactly one verifier. A request never pays for
// both a signature check and a store lookup.
type Authenticator struct {
	tokens *TokenService
	keys   *APIKeyService
	logger *slog.Logger
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(tokens *TokenService, keys *APIKeyService, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{tokens: tokens, keys: keys, logger: logger}
}

// Authenticate resolves the raw Authorization header value to a Principal.
// "Bearer <token>" goes to the token verifier, "Key <secret>" to the API key
// resolver. Anything else — including an empty header — is a missing
// credential, tolerable only on routes explicitly mounted as public.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*domain.Principal, error) {
	scheme, value, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || value == "" {
		return nil, domain.ErrAuth(domain.ReasonMissingCredential, "no credential presented")
	}
	value = strings.TrimSpace(value)

	var p *domain.Principal
	var err error
	switch {
	case strings.EqualFold(scheme, schemeBearer):
		p, err = a.tokens.Verify(ctx, value)
	case strings.EqualFold(scheme, schemeKey):
		p, err = a.keys.Resolve(ctx, value)
	default:
		return nil, domain.ErrAuth(domain.ReasonMissingCredential, "unsupported authorization scheme %q", scheme)
	}

	if err != nil {
		a.logFailure(err)
		return nil, err
	}

	return p, nil
}

// logFailure records the internal taxonomy tag. The HTTP layer collapses
// every non-unavailable failure into one generic message; this log line is
// where the specific reason survives.
func (a *Authenticator) logFailure(err error) {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		a.logger.Info("authentication failed", "reason", string(authErr.Reason))
		return
	}
	a.logger.Warn("authentication error", "error", err)
}
