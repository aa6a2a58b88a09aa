package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveWithRequestID runs one request through the middleware and returns the
// ID the handler saw in its context and the ID echoed on the response header.
func serveWithRequestID(t *testing.T, headerID string) (ctxID, respID string) {
	t.Helper()

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if headerID != "" {
		req.Header.Set("X-Request-ID", headerID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	return ctxID, rec.Header().Get("X-Request-ID")
}

func TestRequestID_GeneratedWhenAbsent(t *testing.T) {
	ctxID, respID := serveWithRequestID(t, "")

	require.NotEmpty(t, ctxID)
	assert.Equal(t, ctxID, respID)
}

func TestRequestID_EchoesWellFormedID(t *testing.T) {
	ctxID, respID := serveWithRequestID(t, "trace_41-Xa")

	assert.Equal(t, "trace_41-Xa", ctxID)
	assert.Equal(t, "trace_41-Xa", respID)
}

func TestRequestID_ReplacesHostileIDs(t *testing.T) {
	tests := []struct {
		name     string
		headerID string
		keep     bool
	}{
		{"newline smuggles a fake log line", "req-1\n2026-01-01 ERROR forged", false},
		{"carriage return", "req-1\rforged", false},
		{"embedded space", "req 1", false},
		{"markup", "<img src=x>", false},
		{"one over the length cap", strings.Repeat("x", 129), false},
		{"exactly at the length cap", strings.Repeat("x", 128), true},
		{"plain alphanumeric", "abc123", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctxID, respID := serveWithRequestID(t, tt.headerID)

			require.NotEmpty(t, ctxID)
			assert.Equal(t, ctxID, respID)
			if tt.keep {
				assert.Equal(t, tt.headerID, ctxID)
			} else {
				assert.NotEqual(t, tt.headerID, ctxID, "hostile ID must be replaced")
			}
		})
	}
}

func TestRequestIDFromContext_EmptyWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}
