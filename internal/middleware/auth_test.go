package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "boardhub/internal/db"
	"boardhub/internal/db/repository"
	"boardhub/internal/domain"
	"boardhub/internal/service/security"
)

type authTestEnv struct {
	db     *sql.DB
	auth   *security.Authenticator
	token  string
	rawKey string
	userID string
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)

	users := repository.NewUserRepo(writeDB)
	keys := repository.NewAPIKeyRepo(writeDB)
	audit := repository.NewAuditRepo(writeDB)

	user := &domain.User{
		ID:           domain.NewID(),
		Name:         "alice",
		PasswordHash: "unused",
	}
	require.NoError(t, users.Create(context.Background(), user))

	tokens, err := security.NewTokenService("middleware-test-secret", 30*time.Minute, users)
	require.NoError(t, err)
	token, _, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	keySvc := security.NewAPIKeyService(keys, nil, users, audit, nil)
	rawKey, _, err := keySvc.Issue(context.Background(), domain.CreateAPIKeyRequest{
		UserID: user.ID,
		Name:   "ci",
	})
	require.NoError(t, err)

	return &authTestEnv{
		db:     writeDB,
		auth:   security.NewAuthenticator(tokens, keySvc, nil),
		token:  token,
		rawKey: rawKey,
		userID: user.ID,
	}
}

// echoPrincipal records the principal the middleware placed in the context.
func echoPrincipal(captured **domain.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := domain.PrincipalFromContext(r.Context())
		*captured = p
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_BearerToken(t *testing.T) {
	env := newAuthTestEnv(t)

	var p *domain.Principal
	handler := Authenticate(env.auth)(echoPrincipal(&p))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, p)
	assert.Equal(t, env.userID, p.User.ID)
	assert.Equal(t, domain.CredentialSession, p.Kind)
}

func TestAuthenticate_XAPIKeyHeader(t *testing.T) {
	env := newAuthTestEnv(t)

	var p *domain.Principal
	handler := Authenticate(env.auth)(echoPrincipal(&p))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", env.rawKey)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, p)
	assert.Equal(t, env.userID, p.User.ID)
	assert.Equal(t, domain.CredentialAPIKey, p.Kind)
}

func TestAuthenticate_FailuresAreGeneric(t *testing.T) {
	env := newAuthTestEnv(t)

	tests := []struct {
		name    string
		setAuth func(r *http.Request)
	}{
		{"no credential", func(*http.Request) {}},
		{"garbage bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-token") }},
		{"unknown api key", func(r *http.Request) { r.Header.Set("Authorization", "Key 0123456789abcdef0123456789abcdef") }},
		{"unsupported scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwYXNz") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Authenticate(env.auth)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				t.Fatal("handler should not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setAuth(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "could not validate credentials", body["message"],
				"every credential failure must return the same body")
		})
	}
}

func TestAuthenticate_StoreOutageIs503(t *testing.T) {
	env := newAuthTestEnv(t)

	// A dead store must surface as an outage, not as a credential failure.
	require.NoError(t, env.db.Close())

	handler := Authenticate(env.auth)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "credential store unavailable", body["message"])
	assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
}
