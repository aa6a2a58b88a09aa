package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"boardhub/internal/domain"
)

// DefaultTokenTTL is the session token lifetime when none is configured.
const DefaultTokenTTL = 1800 * time.Second

// TokenService issues and verifies HS256 session tokens. Tokens are
// self-contained: verification needs no store access until the final subject
// lookup, which is why there is no server-side session table.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	users  domain.UserRepository
	now    func() time.Time
}

// NewTokenService creates a TokenService. The signing secret is fixed at
// construction and never mutated afterwards. ttl 0 selects DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration, users domain.UserRepository) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
		now:    time.Now,
	}, nil
}

// SetClock overrides the time source. Tests use this to cross expiry
// boundaries without sleeping.
func (s *TokenService) SetClock(now func() time.Time) { s.now = now }

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a session token for the given user. expiresIn is the token
// lifetime in seconds, for the login response body.
func (s *TokenService) Issue(userID string) (token string, expiresIn int64, err error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, int64(s.ttl.Seconds()), nil
}

// Verify validates a session token and resolves its subject. Checks run
// cheapest-first: structure, then signature, then expiry, and only then the
// store lookup — a tampered or expired token never costs store I/O.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (*domain.Principal, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrAuth(domain.ReasonMalformed, "token is not well-formed")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrAuth(domain.ReasonInvalidSignature, "token signature mismatch")
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrAuth(domain.ReasonExpired, "token is expired")
		default:
			return nil, domain.ErrAuth(domain.ReasonMalformed, "token rejected: %v", err)
		}
	}

	if claims.Subject == "" {
		return nil, domain.ErrAuth(domain.ReasonMalformed, "token has no subject")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if domain.IsAuthReason(err, domain.ReasonUnavailable) {
			return nil, err
		}
		return nil, domain.ErrAuth(domain.ReasonUnknownSubject, "subject %s not found", claims.Subject)
	}
	if user.Deleted() {
		return nil, domain.ErrAuth(domain.ReasonUnknownSubject, "subject %s is deleted", claims.Subject)
	}

	return domain.SessionPrincipal(*user), nil
}
