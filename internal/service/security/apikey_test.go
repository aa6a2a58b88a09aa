package security

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardhub/internal/domain"
)

func issueTestKey(t *testing.T, env *testEnv, owner *domain.User) (string, *domain.APIKey) {
	t.Helper()
	rawKey, key, err := env.keySvc.Issue(context.Background(), domain.CreateAPIKeyRequest{
		UserID: owner.ID,
		Name:   "test-key",
	})
	require.NoError(t, err)
	return rawKey, key
}

func TestAPIKeyService_IssueAndResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	rawKey, key := issueTestKey(t, env, alice)

	// 32 random bytes hex-encoded, prefix is the first 8 chars.
	assert.Len(t, rawKey, 64)
	assert.Equal(t, rawKey[:8], key.KeyPrefix)
	assert.NotContains(t, key.KeyHash, rawKey)

	p, err := env.keySvc.Resolve(ctx, rawKey)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, p.User.ID)
	assert.Equal(t, domain.CredentialAPIKey, p.Kind)
	require.NotNil(t, p.Key)
	assert.Equal(t, key.ID, p.Key.ID)
}

func TestAPIKeyService_BothCredentialsResolveSameUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	rawKey, _ := issueTestKey(t, env, alice)
	token, _, err := env.tokens.Issue(alice.ID)
	require.NoError(t, err)

	viaKey, err := env.keySvc.Resolve(ctx, rawKey)
	require.NoError(t, err)
	viaToken, err := env.tokens.Verify(ctx, token)
	require.NoError(t, err)

	// Same user either way; only the Kind tag differs.
	assert.Equal(t, viaToken.User.ID, viaKey.User.ID)
	assert.Equal(t, viaToken.User.IsAdmin, viaKey.User.IsAdmin)
	assert.NotEqual(t, viaToken.Kind, viaKey.Kind)
}

func TestAPIKeyService_ResolveRejectsTampered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	rawKey, _ := issueTestKey(t, env, alice)

	_, err := env.keySvc.Resolve(ctx, "short")
	assert.True(t, domain.IsAuthReason(err, domain.ReasonMalformed), "got %v", err)

	// Same prefix, different secret: candidate set is non-empty but the
	// hash comparison must fail.
	tampered := rawKey[:8] + "0000000000000000000000000000000000000000000000000000000000"
	_, err = env.keySvc.Resolve(ctx, tampered)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonUnknownSubject), "got %v", err)
}

func TestAPIKeyService_RevokeByOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	rawKey, key := issueTestKey(t, env, alice)

	require.NoError(t, env.keySvc.Revoke(ctx, key.ID, domain.SessionPrincipal(*alice)))

	_, err := env.keySvc.Resolve(ctx, rawKey)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonRevoked), "got %v", err)

	// Revocation is permanent and idempotent.
	require.NoError(t, env.keySvc.Revoke(ctx, key.ID, domain.SessionPrincipal(*alice)))
	_, err = env.keySvc.Resolve(ctx, rawKey)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonRevoked), "got %v", err)
}

func TestAPIKeyService_RevokeVisibleAcrossPools(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	rawKey, key := issueTestKey(t, env, alice)

	// Resolve goes through the read pool (separate connections from the
	// revoking write pool). The guarded UPDATE is committed before Revoke
	// returns, so a read transaction opened afterwards must observe it.
	_, err := env.keySvc.Resolve(ctx, rawKey)
	require.NoError(t, err)

	require.NoError(t, env.keySvc.Revoke(ctx, key.ID, domain.SessionPrincipal(*alice)))

	_, err = env.keySvc.Resolve(ctx, rawKey)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonRevoked), "got %v", err)
}

func TestAPIKeyService_ConcurrentRevokeResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	rawKey, key := issueTestKey(t, env, alice)

	// Resolvers hammer the key while it gets revoked. A resolver may see the
	// key as valid or as revoked, but never anything else.
	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if _, err := env.keySvc.Resolve(ctx, rawKey); err != nil {
					errs <- err
				}
			}
		}()
	}

	require.NoError(t, env.keySvc.Revoke(ctx, key.ID, domain.SessionPrincipal(*alice)))

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.True(t, domain.IsAuthReason(err, domain.ReasonRevoked), "got %v", err)
	}

	// Once Revoke has returned, no resolve may ever succeed again.
	_, err := env.keySvc.Resolve(ctx, rawKey)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonRevoked), "got %v", err)
}

func TestAPIKeyService_RevokeByNonOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	bob := env.registerUser(t, "bob", "pw456!", false)
	rawKey, key := issueTestKey(t, env, alice)

	err := env.keySvc.Revoke(ctx, key.ID, domain.SessionPrincipal(*bob))
	assert.True(t, domain.IsAuthReason(err, domain.ReasonNotOwner), "got %v", err)

	// The key still works.
	_, err = env.keySvc.Resolve(ctx, rawKey)
	require.NoError(t, err)
}

func TestAPIKeyService_RevokeByAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	root := env.registerUser(t, "root", "pw789!", true)
	rawKey, key := issueTestKey(t, env, alice)

	require.NoError(t, env.keySvc.Revoke(ctx, key.ID, domain.SessionPrincipal(*root)))

	_, err := env.keySvc.Resolve(ctx, rawKey)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonRevoked), "got %v", err)
}

func TestAPIKeyService_Expiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	expiry := time.Now().Add(time.Hour).UTC()
	rawKey, _, err := env.keySvc.Issue(ctx, domain.CreateAPIKeyRequest{
		UserID:    alice.ID,
		Name:      "short-lived",
		ExpiresAt: &expiry,
	})
	require.NoError(t, err)

	_, err = env.keySvc.Resolve(ctx, rawKey)
	require.NoError(t, err)

	env.keySvc.SetClock(func() time.Time { return expiry.Add(time.Second) })
	_, err = env.keySvc.Resolve(ctx, rawKey)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonExpired), "got %v", err)
}

func TestAPIKeyService_DeletedOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	rawKey, _ := issueTestKey(t, env, alice)

	require.NoError(t, env.users.SoftDelete(ctx, alice.ID, time.Now().UTC()))

	// The key was cascade-revoked with its owner.
	_, err := env.keySvc.Resolve(ctx, rawKey)
	require.Error(t, err)
	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestAPIKeyService_ListHidesSecrets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	rawKey, _ := issueTestKey(t, env, alice)

	keys, total, err := env.keySvc.List(ctx, alice.ID, domain.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, keys, 1)
	assert.Empty(t, keys[0].KeyHash)
	assert.Equal(t, rawKey[:8], keys[0].KeyPrefix)
}

func TestAPIKeyService_PurgeExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	past := time.Now().Add(-time.Hour).UTC()
	_, _, err := env.keySvc.Issue(ctx, domain.CreateAPIKeyRequest{
		UserID:    alice.ID,
		Name:      "already-expired",
		ExpiresAt: &past,
	})
	require.NoError(t, err)
	issueTestKey(t, env, alice)

	n, err := env.keySvc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, total, err := env.keySvc.List(ctx, alice.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
