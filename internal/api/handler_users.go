package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"boardhub/internal/domain"
)

// paginatedUsers is the body for GET /v1/users.
type paginatedUsers struct {
	Data          []User  `json:"data"`
	NextPageToken *string `json:"next_page_token,omitempty"`
}

// setAdminRequest is the body for PUT /v1/users/{userID}/admin.
type setAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// ListUsers handles GET /v1/users. Admin only (enforced in the service).
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	users, total, err := h.users.List(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]User, len(users))
	for i := range users {
		out[i] = userToAPI(&users[i])
	}
	npt := domain.NextPageToken(page.Offset(), page.Limit(), total)
	writeJSON(w, http.StatusOK, paginatedUsers{Data: out, NextPageToken: optStr(npt)})
}

// GetUser handles GET /v1/users/{userID}. Admin or self only (enforced in
// the service).
func (h *APIHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(user))
}

// SetUserAdmin handles PUT /v1/users/{userID}/admin. Admin only.
func (h *APIHandler) SetUserAdmin(w http.ResponseWriter, r *http.Request) {
	var req setAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := h.users.SetAdmin(r.Context(), chi.URLParam(r, "userID"), req.IsAdmin); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser handles DELETE /v1/users/{userID}. Admin only. Soft-deletes the
// account and revokes every API key it owns in one transaction.
func (h *APIHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
