package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"boardhub/internal/domain"
)

// createAPIKeyRequest is the body for POST /v1/api-keys.
type createAPIKeyRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// createAPIKeyResponse is returned once, at creation. The Key field is the
// only place the raw secret ever appears in a response.
type createAPIKeyResponse struct {
	Key     string     `json:"key"`
	Details APIKeyMeta `json:"details"`
}

// paginatedAPIKeys is the body for GET /v1/api-keys.
type paginatedAPIKeys struct {
	Data          []APIKeyMeta `json:"data"`
	NextPageToken *string      `json:"next_page_token,omitempty"`
}

// CreateAPIKey handles POST /v1/api-keys. The key is always owned by the
// authenticated principal; there is no way to mint a key for someone else.
func (h *APIHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrAuth(domain.ReasonMissingCredential, "no principal"))
		return
	}
	var req createAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	rawKey, key, err := h.apiKeys.Issue(r.Context(), domain.CreateAPIKeyRequest{
		UserID:    p.User.ID,
		Name:      req.Name,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createAPIKeyResponse{
		Key:     rawKey,
		Details: apiKeyToAPI(*key),
	})
}

// ListAPIKeys handles GET /v1/api-keys. Lists the caller's own keys.
func (h *APIHandler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrAuth(domain.ReasonMissingCredential, "no principal"))
		return
	}
	page := pageFromQuery(r)
	keys, total, err := h.apiKeys.List(r.Context(), p.User.ID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]APIKeyMeta, len(keys))
	for i, k := range keys {
		out[i] = apiKeyToAPI(k)
	}
	npt := domain.NextPageToken(page.Offset(), page.Limit(), total)
	writeJSON(w, http.StatusOK, paginatedAPIKeys{Data: out, NextPageToken: optStr(npt)})
}

// RevokeAPIKey handles DELETE /v1/api-keys/{keyID}. Owners and admins only;
// revocation is permanent and idempotent.
func (h *APIHandler) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrAuth(domain.ReasonMissingCredential, "no principal"))
		return
	}
	keyID := chi.URLParam(r, "keyID")
	if err := h.apiKeys.Revoke(r.Context(), keyID, p); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
