// Package middleware provides HTTP middleware for credential verification,
// request IDs, and rate limiting.
package middleware

import (
	"encoding/json"
	"net/http"

	"boardhub/internal/domain"
	"boardhub/internal/service/security"
)

// genericAuthMessage is the single message returned for every credential
// failure. The specific reason (expired, revoked, bad signature, ...) is
// logged server-side but never disclosed to the caller.
const genericAuthMessage = "could not validate credentials"

// Authenticate returns an HTTP middleware that resolves the request's
// credential to a Principal and stores it in the context. Requests carry
// either "Authorization: Bearer <token>", "Authorization: Key <secret>", or
// an X-API-Key header (treated as a Key credential). Requests with no valid
// credential are rejected with 401; a store outage yields 503.
func Authenticate(auth *security.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
					header = "Key " + apiKey
				}
			}

			principal, err := auth.Authenticate(r.Context(), header)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := domain.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError maps a credential failure to an HTTP response. Everything
// collapses into a generic 401 except store outages (503) — the response
// body never reveals whether a credential exists, is expired, or is revoked.
func writeAuthError(w http.ResponseWriter, err error) {
	if domain.IsAuthReason(err, domain.ReasonUnavailable) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    http.StatusServiceUnavailable,
			"message": "credential store unavailable",
		})
		return
	}

	w.Header().Set("WWW-Authenticate", `Bearer realm="boardhub"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": genericAuthMessage,
	})
}
