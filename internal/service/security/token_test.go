package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardhub/internal/domain"
)

func TestTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Minute, nil)
	require.Error(t, err)
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)

	token, expiresIn, err := env.tokens.Issue(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), expiresIn)

	p, err := env.tokens.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, p.User.ID)
	assert.Equal(t, domain.CredentialSession, p.Kind)
	assert.Nil(t, p.Key)
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)

	issued := time.Now()
	env.tokens.SetClock(func() time.Time { return issued })
	token, _, err := env.tokens.Issue(alice.ID)
	require.NoError(t, err)

	// Still valid just before the TTL elapses.
	env.tokens.SetClock(func() time.Time { return issued.Add(env.tokens.TTL() - time.Second) })
	_, err = env.tokens.Verify(ctx, token)
	require.NoError(t, err)

	// Rejected once the TTL has passed.
	env.tokens.SetClock(func() time.Time { return issued.Add(env.tokens.TTL() + time.Second) })
	_, err = env.tokens.Verify(ctx, token)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonExpired), "got %v", err)
}

func TestTokenService_Malformed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := env.tokens.Verify(ctx, tok)
		assert.True(t, domain.IsAuthReason(err, domain.ReasonMalformed), "token %q: got %v", tok, err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)

	other, err := NewTokenService("a-different-secret", time.Minute, env.users)
	require.NoError(t, err)
	forged, _, err := other.Issue(alice.ID)
	require.NoError(t, err)

	_, err = env.tokens.Verify(ctx, forged)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonInvalidSignature), "got %v", err)
}

func TestTokenService_UnknownSubject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, _, err := env.tokens.Issue("no-such-user")
	require.NoError(t, err)

	_, err = env.tokens.Verify(ctx, token)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonUnknownSubject), "got %v", err)
}

func TestTokenService_DeletedSubject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.registerUser(t, "alice", "pw123!", false)
	token, _, err := env.tokens.Issue(alice.ID)
	require.NoError(t, err)

	// A valid token dies with its subject.
	require.NoError(t, env.users.SoftDelete(ctx, alice.ID, time.Now().UTC()))
	_, err = env.tokens.Verify(ctx, token)
	assert.True(t, domain.IsAuthReason(err, domain.ReasonUnknownSubject), "got %v", err)
}
