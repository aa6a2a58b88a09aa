// Package security implements the credential services: password hashing,
// session token issue/verify, API key lifecycle, the authentication façade,
// and the authorization guard.
package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with a fixed cost. Each Hash call embeds a
// fresh random salt in the output, so equal plaintexts never produce equal
// records.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost.
// Cost 0 selects bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a salted one-way hash of the plaintext. The only failure mode
// is entropy-source exhaustion, which callers treat as fatal.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored record. bcrypt's
// comparison is constant-time with respect to correctness; malformed records
// verify as false rather than erroring.
func (h *PasswordHasher) Verify(plaintext, record string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(record), []byte(plaintext))
	if err == nil {
		return true
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false
	}
	// Malformed record, too-long password, unknown version: treat as mismatch.
	return false
}
