package security

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"boardhub/internal/domain"
)

// keyPrefixLen is the number of leading characters of the raw secret stored
// as the lookup handle. 8 hex chars leave 248 bits of entropy in the rest.
const keyPrefixLen = 8

// APIKeyService manages the opaque-credential lifecycle: issue, resolve,
// revoke, list, and expiry purging.
//
// It carries two key repositories: keys performs the mutations (Create,
// Revoke, DeleteExpired) on the write pool, while resolveKeys serves Resolve
// from the read pool so concurrent credential checks never queue behind the
// single write connection. Revocation stays monotonic across the split: Revoke
// commits its guarded UPDATE before returning, and every Resolve begins a
// fresh WAL read transaction, which observes all commits made before it
// started.
type APIKeyService struct {
	keys        domain.APIKeyRepository
	resolveKeys domain.APIKeyRepository
	users       domain.UserRepository
	audit       domain.AuditRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewAPIKeyService creates a new APIKeyService. A nil resolveKeys falls back
// to the mutation repository for callers wired to a single pool.
func NewAPIKeyService(keys, resolveKeys domain.APIKeyRepository, users domain.UserRepository, audit domain.AuditRepository, logger *slog.Logger) *APIKeyService {
	if resolveKeys == nil {
		resolveKeys = keys
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &APIKeyService{keys: keys, resolveKeys: resolveKeys, users: users, audit: audit, logger: logger, now: time.Now}
}

// SetClock overrides the time source for expiry tests.
func (s *APIKeyService) SetClock(now func() time.Time) { s.now = now }

// Issue generates a new API key owned by req.UserID. The request carries
// only the owner identity — never the credential type that authenticated the
// caller — so a key minted under a session token is indistinguishable from
// one minted under another key. The raw secret is returned exactly once;
// only its SHA-256 is persisted, keyed separately from password hashes.
func (s *APIKeyService) Issue(ctx context.Context, req domain.CreateAPIKeyRequest) (string, *domain.APIKey, error) {
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	owner, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return "", nil, err
	}
	if owner.Deleted() {
		return "", nil, domain.ErrNotFound("user %s not found", req.UserID)
	}

	// 32 random bytes: 256 bits of entropy. rand.Read failing means the
	// entropy source is gone, which is not a recoverable condition.
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}
	rawKey := hex.EncodeToString(rawBytes)

	hash := sha256.Sum256([]byte(rawKey))

	key := &domain.APIKey{
		ID:        domain.NewID(),
		UserID:    owner.ID,
		Name:      req.Name,
		KeyPrefix: rawKey[:keyPrefixLen],
		KeyHash:   hex.EncodeToString(hash[:]),
		ExpiresAt: req.ExpiresAt,
		CreatedAt: s.now().UTC(),
	}

	if err := s.keys.Create(ctx, key); err != nil {
		return "", nil, err
	}

	s.logAudit(ctx, owner.Name, fmt.Sprintf("CREATE_API_KEY(name=%s)", req.Name), domain.AuditAllowed, "")
	return rawKey, key, nil
}

// Resolve authenticates a raw API key and returns the owning principal.
// Candidates are narrowed by the lookup prefix, then verified with a
// constant-time hash comparison before any revocation or expiry decision.
func (s *APIKeyService) Resolve(ctx context.Context, rawKey string) (*domain.Principal, error) {
	if len(rawKey) <= keyPrefixLen {
		return nil, domain.ErrAuth(domain.ReasonMalformed, "api key too short")
	}

	hash := sha256.Sum256([]byte(rawKey))
	hashStr := hex.EncodeToString(hash[:])

	candidates, err := s.resolveKeys.GetByPrefix(ctx, rawKey[:keyPrefixLen])
	if err != nil {
		return nil, err
	}

	var match *domain.APIKey
	for i := range candidates {
		if subtle.ConstantTimeCompare([]byte(candidates[i].KeyHash), []byte(hashStr)) == 1 {
			match = &candidates[i]
			break
		}
	}
	if match == nil {
		return nil, domain.ErrAuth(domain.ReasonUnknownSubject, "api key not recognized")
	}

	if match.Revoked() {
		return nil, domain.ErrAuth(domain.ReasonRevoked, "api key %s is revoked", match.ID)
	}
	if match.Expired(s.now()) {
		return nil, domain.ErrAuth(domain.ReasonExpired, "api key %s is expired", match.ID)
	}

	owner, err := s.users.GetByID(ctx, match.UserID)
	if err != nil {
		if domain.IsAuthReason(err, domain.ReasonUnavailable) {
			return nil, err
		}
		return nil, domain.ErrAuth(domain.ReasonUnknownSubject, "key owner %s not found", match.UserID)
	}
	if owner.Deleted() {
		return nil, domain.ErrAuth(domain.ReasonUnknownSubject, "key owner %s is deleted", match.UserID)
	}

	return domain.APIKeyPrincipal(*owner, match), nil
}

// Revoke permanently disables a key. Only the owner or an admin may revoke;
// revocation is monotonic and never reversed.
func (s *APIKeyService) Revoke(ctx context.Context, keyID string, requester *domain.Principal) error {
	key, err := s.keys.GetByID(ctx, keyID)
	if err != nil {
		return err
	}

	if key.UserID != requester.User.ID && !requester.User.IsAdmin {
		s.logAudit(ctx, requester.User.Name,
			fmt.Sprintf("REVOKE_API_KEY(id=%s)", keyID), domain.AuditDenied, string(domain.ReasonNotOwner))
		return domain.ErrAuth(domain.ReasonNotOwner, "api key %s is not owned by the requester", keyID)
	}

	if err := s.keys.Revoke(ctx, keyID, s.now().UTC()); err != nil {
		return err
	}

	s.logAudit(ctx, requester.User.Name,
		fmt.Sprintf("REVOKE_API_KEY(id=%s)", keyID), domain.AuditAllowed, "")
	return nil
}

// List returns key metadata for a user. The result never contains the raw
// secret or its hash.
func (s *APIKeyService) List(ctx context.Context, userID string, page domain.PageRequest) ([]domain.APIKey, int64, error) {
	keys, total, err := s.keys.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, err
	}
	for i := range keys {
		keys[i].KeyHash = ""
	}
	return keys, total, nil
}

// PurgeExpired deletes keys past their optional expiry. Wired to a cron
// schedule in the server; revoked keys are kept for audit.
func (s *APIKeyService) PurgeExpired(ctx context.Context) (int64, error) {
	count, err := s.keys.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("purged expired api keys", "count", count)
	}
	return count, nil
}

func (s *APIKeyService) logAudit(ctx context.Context, principal, action, status, reason string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: principal,
		Action:        action,
		Status:        status,
		Reason:        reason,
	})
}
