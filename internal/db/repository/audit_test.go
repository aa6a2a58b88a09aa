package repository

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "boardhub/internal/db"
	"boardhub/internal/domain"
)

func setupAuditTest(t *testing.T) *AuditRepo {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewAuditRepo(writeDB)
}

func TestAuditRepo_InsertAndList(t *testing.T) {
	auditRepo := setupAuditTest(t)
	ctx := context.Background()

	entries := []*domain.AuditEntry{
		{PrincipalName: "alice", Action: "LOGIN", Status: domain.AuditAllowed},
		{PrincipalName: "alice", Action: "CREATE_API_KEY(name=ci)", Status: domain.AuditAllowed},
		{PrincipalName: "bob", Action: "LOGIN", Status: domain.AuditDenied, Reason: "invalid_signature"},
	}
	for _, e := range entries {
		require.NoError(t, auditRepo.Insert(ctx, e))
	}

	all, total, err := auditRepo.List(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	// Filter by principal.
	alice := "alice"
	got, total, err := auditRepo.List(ctx, domain.AuditFilter{PrincipalName: &alice})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, e := range got {
		assert.Equal(t, "alice", e.PrincipalName)
	}

	// Filter by status keeps the internal reason tag.
	denied := domain.AuditDenied
	got, total, err = auditRepo.List(ctx, domain.AuditFilter{Status: &denied})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "bob", got[0].PrincipalName)
	assert.Equal(t, "invalid_signature", got[0].Reason)
}

func TestAuditRepo_SinceFilter(t *testing.T) {
	auditRepo := setupAuditTest(t)
	ctx := context.Background()

	require.NoError(t, auditRepo.Insert(ctx, &domain.AuditEntry{
		PrincipalName: "alice", Action: "LOGIN", Status: domain.AuditAllowed,
	}))

	future := time.Now().UTC().Add(time.Hour)
	_, total, err := auditRepo.List(ctx, domain.AuditFilter{Since: &future})
	require.NoError(t, err)
	assert.Zero(t, total)
}
