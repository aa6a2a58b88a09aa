// Package app provides application-level wiring and dependency injection
// for the boardhub auth service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"boardhub/internal/config"
	"boardhub/internal/db/repository"
	"boardhub/internal/service/governance"
	"boardhub/internal/service/security"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles and config.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers that the API handler and router need.
type Services struct {
	User          *security.UserService
	Token         *security.TokenService
	APIKey        *security.APIKeyService
	Group         *security.GroupService
	Guard         *security.Guard
	Audit         *governance.AuditService
	Authenticator *security.Authenticator
}

// App holds the fully-wired application.
type App struct {
	Services Services
}

// New wires all repositories and services from the provided deps. It also
// runs the optional YAML seed when the config names a seed file.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// === Repositories (write-pool) ===
	userRepo := repository.NewUserRepo(deps.WriteDB)
	apiKeyRepo := repository.NewAPIKeyRepo(deps.WriteDB)
	groupRepo := repository.NewGroupRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)

	// === Repositories (read-pool) ===
	// Credential verification is the hot read path; it must not queue
	// behind the single write connection.
	readUserRepo := repository.NewUserRepo(deps.ReadDB)
	readKeyRepo := repository.NewAPIKeyRepo(deps.ReadDB)
	readGroupRepo := repository.NewGroupRepo(deps.ReadDB)

	// === Core services ===
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	userSvc := security.NewUserService(userRepo, hasher, auditRepo, deps.Logger.With("component", "users"))

	tokenSvc, err := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, readUserRepo)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	// Mutations stay on the write pool; Resolve gets the read pool so key
	// checks run in parallel. A revoke is committed before Revoke returns,
	// so read transactions started afterwards always see it.
	apiKeySvc := security.NewAPIKeyService(apiKeyRepo, readKeyRepo, readUserRepo, auditRepo, deps.Logger.With("component", "api-keys"))

	groupSvc := security.NewGroupService(groupRepo, auditRepo)
	guard := security.NewGuard(readGroupRepo, auditRepo, deps.Logger.With("component", "guard"))
	auditSvc := governance.NewAuditService(auditRepo)
	authenticator := security.NewAuthenticator(tokenSvc, apiKeySvc, deps.Logger.With("component", "auth"))

	// === Seed bootstrap data ===
	if cfg.SeedFile != "" {
		if err := Seed(ctx, cfg.SeedFile, hasher, userRepo, groupRepo); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		deps.Logger.Info("seed applied", "file", cfg.SeedFile)
	}

	return &App{
		Services: Services{
			User:          userSvc,
			Token:         tokenSvc,
			APIKey:        apiKeySvc,
			Group:         groupSvc,
			Guard:         guard,
			Audit:         auditSvc,
			Authenticator: authenticator,
		},
	}, nil
}
