package security

import (
	"context"
	"log/slog"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	internaldb "boardhub/internal/db"
	"boardhub/internal/db/repository"
	"boardhub/internal/domain"
)

// testEnv wires real repositories on a temp SQLite store. Bcrypt runs at
// MinCost so the password tests stay fast.
type testEnv struct {
	users  *repository.UserRepo
	keys   *repository.APIKeyRepo
	groups *repository.GroupRepo
	audit  *repository.AuditRepo

	hasher  *PasswordHasher
	userSvc *UserService
	tokens  *TokenService
	keySvc  *APIKeyService
	guard   *Guard
	auth    *Authenticator
}

const testSecret = "test-signing-secret"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	writeDB, readDB := internaldb.OpenTestSQLite(t)

	env := &testEnv{
		users:  repository.NewUserRepo(writeDB),
		keys:   repository.NewAPIKeyRepo(writeDB),
		groups: repository.NewGroupRepo(writeDB),
		audit:  repository.NewAuditRepo(writeDB),
		hasher: NewPasswordHasher(bcrypt.MinCost),
	}

	logger := slog.Default()
	env.userSvc = NewUserService(env.users, env.hasher, env.audit, logger)

	tokens, err := NewTokenService(testSecret, 30*time.Minute, env.users)
	require.NoError(t, err)
	env.tokens = tokens

	// Resolve runs on the read pool, mirroring the server wiring.
	env.keySvc = NewAPIKeyService(env.keys, repository.NewAPIKeyRepo(readDB), env.users, env.audit, logger)
	env.guard = NewGuard(env.groups, env.audit, logger)
	env.auth = NewAuthenticator(env.tokens, env.keySvc, logger)

	return env
}

// registerUser creates a user through the service so the password hash is real.
func (e *testEnv) registerUser(t *testing.T, name, password string, admin bool) *domain.User {
	t.Helper()
	u, err := e.userSvc.Register(context.Background(), domain.RegisterUserRequest{
		Name:     name,
		Password: password,
		IsAdmin:  admin,
	})
	require.NoError(t, err)
	return u
}

// asPrincipal returns a context carrying a session principal for the user.
func asPrincipal(u *domain.User) context.Context {
	return domain.WithPrincipal(context.Background(), domain.SessionPrincipal(*u))
}
