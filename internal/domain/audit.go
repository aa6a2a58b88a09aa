package domain

import "time"

// Audit entry statuses.
const (
	AuditAllowed = "ALLOWED"
	AuditDenied  = "DENIED"
)

// AuditEntry records an authentication or authorization event. The Reason
// field retains the internal failure taxonomy tag that is never exposed
// over HTTP.
type AuditEntry struct {
	ID            int64
	PrincipalName string
	Action        string
	Status        string
	Reason        string
	CreatedAt     time.Time
}

// AuditFilter holds filter parameters for querying audit entries.
type AuditFilter struct {
	PrincipalName *string
	Action        *string
	Status        *string
	Since         *time.Time
	Page          PageRequest
}
