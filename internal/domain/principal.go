package domain

// CredentialKind tags which credential type produced a Principal.
type CredentialKind string

const (
	// CredentialSession marks a principal resolved from a signed session token.
	CredentialSession CredentialKind = "session"
	// CredentialAPIKey marks a principal resolved from an opaque API key.
	CredentialAPIKey CredentialKind = "api_key"
)

// Principal is the resolved authenticated identity. Authorization logic
// treats both variants identically through the embedded User; the Kind tag
// and the resolving APIKey are retained for audit logging only.
type Principal struct {
	User User
	Kind CredentialKind
	Key  *APIKey // set only when Kind == CredentialAPIKey
}

// SessionPrincipal builds the session-token variant.
func SessionPrincipal(u User) *Principal {
	return &Principal{User: u, Kind: CredentialSession}
}

// APIKeyPrincipal builds the API-key variant.
func APIKeyPrincipal(u User, k *APIKey) *Principal {
	return &Principal{User: u, Kind: CredentialAPIKey, Key: k}
}
