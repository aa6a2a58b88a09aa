package api

import (
	"net/http"
	"time"

	"boardhub/internal/domain"
)

// paginatedAuditEntries is the body for GET /v1/audit.
type paginatedAuditEntries struct {
	Data          []AuditEntry `json:"data"`
	NextPageToken *string      `json:"next_page_token,omitempty"`
}

// ListAuditEntries handles GET /v1/audit. Admin only (enforced in the
// service). Supports principal/action/status/since query filters.
func (h *APIHandler) ListAuditEntries(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{Page: pageFromQuery(r)}
	q := r.URL.Query()
	if v := q.Get("principal"); v != "" {
		filter.PrincipalName = &v
	}
	if v := q.Get("action"); v != "" {
		filter.Action = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, domain.ErrValidation("since must be RFC3339"))
			return
		}
		filter.Since = &t
	}

	entries, total, err := h.audit.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]AuditEntry, len(entries))
	for i, e := range entries {
		out[i] = auditEntryToAPI(e)
	}
	npt := domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total)
	writeJSON(w, http.StatusOK, paginatedAuditEntries{Data: out, NextPageToken: optStr(npt)})
}
