package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "boardhub/internal/db"
	"boardhub/internal/domain"
)

func setupGroupTest(t *testing.T) (*GroupRepo, *UserRepo) {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewGroupRepo(writeDB), NewUserRepo(writeDB)
}

func TestGroupRepo_CreateAndGet(t *testing.T) {
	groupRepo, _ := setupGroupTest(t)
	ctx := context.Background()

	g := &domain.Group{ID: domain.NewID(), Name: "designers", Description: "Design team"}
	require.NoError(t, groupRepo.Create(ctx, g))

	byID, err := groupRepo.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "designers", byID.Name)
	assert.Equal(t, "Design team", byID.Description)

	byName, err := groupRepo.GetByName(ctx, "designers")
	require.NoError(t, err)
	assert.Equal(t, g.ID, byName.ID)
}

func TestGroupRepo_DuplicateNameConflicts(t *testing.T) {
	groupRepo, _ := setupGroupTest(t)
	ctx := context.Background()

	require.NoError(t, groupRepo.Create(ctx, &domain.Group{ID: domain.NewID(), Name: "designers"}))
	err := groupRepo.Create(ctx, &domain.Group{ID: domain.NewID(), Name: "designers"})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestGroupRepo_Membership(t *testing.T) {
	groupRepo, userRepo := setupGroupTest(t)
	ctx := context.Background()

	g := &domain.Group{ID: domain.NewID(), Name: "designers"}
	require.NoError(t, groupRepo.Create(ctx, g))
	alice := mustCreateUser(t, userRepo, "alice")
	bob := mustCreateUser(t, userRepo, "bob")

	require.NoError(t, groupRepo.AddMember(ctx, &domain.GroupMember{GroupID: g.ID, UserID: alice.ID}))

	ok, err := groupRepo.IsMember(ctx, g.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = groupRepo.IsMember(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	members, err := groupRepo.ListMembers(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, alice.ID, members[0].UserID)

	require.NoError(t, groupRepo.RemoveMember(ctx, &domain.GroupMember{GroupID: g.ID, UserID: alice.ID}))
	ok, err = groupRepo.IsMember(ctx, g.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGroupRepo_DeleteRemovesMembership(t *testing.T) {
	groupRepo, userRepo := setupGroupTest(t)
	ctx := context.Background()

	g := &domain.Group{ID: domain.NewID(), Name: "designers"}
	require.NoError(t, groupRepo.Create(ctx, g))
	alice := mustCreateUser(t, userRepo, "alice")
	require.NoError(t, groupRepo.AddMember(ctx, &domain.GroupMember{GroupID: g.ID, UserID: alice.ID}))

	require.NoError(t, groupRepo.Delete(ctx, g.ID))

	_, err := groupRepo.GetByID(ctx, g.ID)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	ok, err := groupRepo.IsMember(ctx, g.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
