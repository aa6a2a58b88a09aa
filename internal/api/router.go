package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"boardhub/internal/middleware"
	"boardhub/internal/service/security"
)

// RouterConfig holds the knobs the router needs beyond the handler itself.
type RouterConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the chi router: public routes (health, register, login)
// and the authenticated /v1 surface behind the credential middleware.
func NewRouter(h *APIHandler, auth *security.Authenticator, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		MaxAge:         300,
	}))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		}))
	}

	// Public endpoints — no auth required
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		// Everything else requires a credential
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(auth))

			r.Get("/users/me", h.Me)
			r.Put("/users/me/password", h.ChangePassword)

			r.Get("/users", h.ListUsers)
			r.Get("/users/{userID}", h.GetUser)
			r.Put("/users/{userID}/admin", h.SetUserAdmin)
			r.Delete("/users/{userID}", h.DeleteUser)

			r.Post("/api-keys", h.CreateAPIKey)
			r.Get("/api-keys", h.ListAPIKeys)
			r.Delete("/api-keys/{keyID}", h.RevokeAPIKey)

			r.Post("/groups", h.CreateGroup)
			r.Get("/groups", h.ListGroups)
			r.Get("/groups/{groupID}", h.GetGroup)
			r.Delete("/groups/{groupID}", h.DeleteGroup)
			r.Get("/groups/{groupID}/members", h.ListGroupMembers)
			r.Post("/groups/{groupID}/members", h.AddGroupMember)
			r.Delete("/groups/{groupID}/members/{userID}", h.RemoveGroupMember)

			r.Post("/authz/check", h.CheckAccess)

			r.Get("/audit", h.ListAuditEntries)
		})
	})

	return r
}
