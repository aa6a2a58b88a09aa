package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedHandler(cfg RateLimitConfig) http.Handler {
	return RateLimiter(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	handler := limitedHandler(RateLimitConfig{RequestsPerSecond: 1, Burst: 3})

	for range 3 {
		rec := hit(handler, "10.9.8.7:40001")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}

	// The bucket is empty and refills at 1/s; the fourth request is rejected
	// with a retry hint and the JSON error envelope.
	rec := hit(handler, "10.9.8.7:40001")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.InDelta(t, float64(http.StatusTooManyRequests), body["code"], 0.001)
	assert.Equal(t, "rate limit exceeded", body["message"])
}

func TestRateLimiter_BucketsKeyedByHost(t *testing.T) {
	handler := limitedHandler(RateLimitConfig{RequestsPerSecond: 1, Burst: 2})

	require.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1111").Code)
	require.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:2222").Code)

	// Same host, third port: still the same bucket, now empty.
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1:3333").Code)

	// A different host gets its own bucket.
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.2:1111").Code)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"ipv4", "192.0.2.10:54321", "", "192.0.2.10"},
		{"ipv6", "[2001:db8::1]:54321", "", "2001:db8::1"},
		{"no port falls back to the raw address", "192.0.2.10", "", "192.0.2.10"},
		{"forwarded-for chain is ignored", "10.0.0.1:1234", "203.0.113.50, 70.41.3.18", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
