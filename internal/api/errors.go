package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"boardhub/internal/domain"
)

// genericAuthMessage is the only message 401 responses ever carry. Expired,
// revoked, forged, and unknown credentials are indistinguishable to the
// caller; the internal reason goes to the audit log and server log only.
const genericAuthMessage = "could not validate credentials"

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var accessDenied *domain.AccessDeniedError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError
	var auth *domain.AuthError

	switch {
	case errors.As(err, &auth):
		switch auth.Reason {
		case domain.ReasonForbidden, domain.ReasonNotOwner:
			return http.StatusForbidden
		case domain.ReasonUnavailable:
			return http.StatusServiceUnavailable
		default:
			return http.StatusUnauthorized
		}
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError writes a domain error as a JSON error response. Credential
// failures (401) always carry the generic message; everything else exposes
// the domain error text.
func writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	msg := err.Error()
	switch status {
	case http.StatusUnauthorized:
		msg = genericAuthMessage
		w.Header().Set("WWW-Authenticate", `Bearer realm="boardhub"`)
	case http.StatusServiceUnavailable:
		msg = "credential store unavailable"
	case http.StatusInternalServerError:
		msg = "internal server error"
	}
	writeJSON(w, status, errorBody{Code: status, Message: msg})
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
