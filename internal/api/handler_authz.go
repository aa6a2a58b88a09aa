package api

import (
	"encoding/json"
	"net/http"

	"boardhub/internal/domain"
)

// authzCheckRequest is the body for POST /v1/authz/check. The caller (the
// boards application) supplies the resource facts; the decision is computed
// from the authenticated principal.
type authzCheckRequest struct {
	Action   string   `json:"action"`
	Type     string   `json:"resource_type"`
	ID       string   `json:"resource_id"`
	OwnerID  string   `json:"owner_id"`
	GroupIDs []string `json:"group_ids,omitempty"` // groups the resource is shared with
}

// authzCheckResponse is the decision for an authorization check.
type authzCheckResponse struct {
	Allowed bool `json:"allowed"`
}

// CheckAccess handles POST /v1/authz/check. Returns {allowed: true|false};
// a denial is a 200 with allowed=false, not a 403 — the caller asked a
// question and got an answer.
func (h *APIHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrAuth(domain.ReasonMissingCredential, "no principal"))
		return
	}
	var req authzCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.Action == "" || req.ID == "" {
		writeError(w, domain.ErrValidation("action and resource_id are required"))
		return
	}

	err := h.guard.Authorize(r.Context(), p, domain.Action(req.Action), domain.Resource{
		Type:       req.Type,
		ID:         req.ID,
		OwnerID:    req.OwnerID,
		SharedWith: req.GroupIDs,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, authzCheckResponse{Allowed: true})
	case domain.IsAuthReason(err, domain.ReasonForbidden):
		writeJSON(w, http.StatusOK, authzCheckResponse{Allowed: false})
	default:
		writeError(w, err)
	}
}
