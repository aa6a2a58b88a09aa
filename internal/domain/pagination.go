package domain

import (
	"encoding/base64"
	"strconv"
)

// List endpoints clamp their page size to this range.
const (
	DefaultMaxResults = 100
	MaxMaxResults     = 1000
)

// PageRequest carries the caller's paging inputs. PageToken is opaque to
// clients; internally it is a base64url-encoded row offset.
type PageRequest struct {
	MaxResults int
	PageToken  string
}

// Limit clamps MaxResults into [1, MaxMaxResults], defaulting when unset.
func (p PageRequest) Limit() int {
	switch {
	case p.MaxResults <= 0:
		return DefaultMaxResults
	case p.MaxResults > MaxMaxResults:
		return MaxMaxResults
	}
	return p.MaxResults
}

// Offset decodes PageToken into a row offset. A missing or garbage token
// restarts from the first page rather than erroring: the token is a resume
// hint, not part of the input contract.
func (p PageRequest) Offset() int {
	raw, err := base64.RawURLEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// NextPageToken returns the token for the page after offset+limit, or ""
// when the listing is exhausted.
func NextPageToken(offset, limit int, total int64) string {
	next := offset + limit
	if int64(next) >= total {
		return ""
	}
	return EncodePageToken(next)
}

// EncodePageToken encodes a row offset as an opaque page token.
func EncodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}
