package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"boardhub/internal/domain"
)

// createGroupRequest is the body for POST /v1/groups.
type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// addMemberRequest is the body for POST /v1/groups/{groupID}/members.
type addMemberRequest struct {
	UserID string `json:"user_id"`
}

// paginatedGroups is the body for GET /v1/groups.
type paginatedGroups struct {
	Data          []Group `json:"data"`
	NextPageToken *string `json:"next_page_token,omitempty"`
}

// groupMembersResponse is the body for GET /v1/groups/{groupID}/members.
type groupMembersResponse struct {
	Data []string `json:"data"` // member user IDs
}

// CreateGroup handles POST /v1/groups. Admin only.
func (h *APIHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	group, err := h.groups.Create(r.Context(), domain.CreateGroupRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, groupToAPI(*group))
}

// ListGroups handles GET /v1/groups.
func (h *APIHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	groups, total, err := h.groups.List(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = groupToAPI(g)
	}
	npt := domain.NextPageToken(page.Offset(), page.Limit(), total)
	writeJSON(w, http.StatusOK, paginatedGroups{Data: out, NextPageToken: optStr(npt)})
}

// GetGroup handles GET /v1/groups/{groupID}.
func (h *APIHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.GetByID(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupToAPI(*group))
}

// DeleteGroup handles DELETE /v1/groups/{groupID}. Admin only.
func (h *APIHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.Delete(r.Context(), chi.URLParam(r, "groupID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddGroupMember handles POST /v1/groups/{groupID}/members. Admin only.
func (h *APIHandler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := h.groups.AddMember(r.Context(), chi.URLParam(r, "groupID"), req.UserID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveGroupMember handles DELETE /v1/groups/{groupID}/members/{userID}. Admin only.
func (h *APIHandler) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.RemoveMember(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "userID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGroupMembers handles GET /v1/groups/{groupID}/members.
func (h *APIHandler) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.groups.ListMembers(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.UserID
	}
	writeJSON(w, http.StatusOK, groupMembersResponse{Data: out})
}
