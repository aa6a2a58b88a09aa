package domain

import (
	"errors"
	"fmt"
)

// AuthReason tags the internal cause of an authentication or authorization
// failure. Reasons are retained for audit logging only; HTTP responses
// collapse all credential failures into one generic message so that callers
// cannot probe which check rejected them.
type AuthReason string

const (
	ReasonMissingCredential AuthReason = "missing_credential"
	ReasonMalformed         AuthReason = "malformed"
	ReasonInvalidSignature  AuthReason = "invalid_signature"
	ReasonExpired           AuthReason = "expired"
	ReasonUnknownSubject    AuthReason = "unknown_subject"
	ReasonRevoked           AuthReason = "revoked"
	ReasonNotOwner          AuthReason = "not_owner"
	ReasonForbidden         AuthReason = "forbidden"
	ReasonUnavailable       AuthReason = "unavailable"
)

// AuthError is the typed result for every expected authentication and
// authorization failure. Hash mismatches, expiry, and revocation are ordinary
// control flow, not panics.
type AuthError struct {
	Reason  AuthReason
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// ErrAuth creates an AuthError with a formatted message.
func ErrAuth(reason AuthReason, format string, args ...interface{}) *AuthError {
	return &AuthError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// IsAuthReason reports whether err is (or wraps) an AuthError with the
// given reason.
func IsAuthReason(err error, reason AuthReason) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Reason == reason
}
