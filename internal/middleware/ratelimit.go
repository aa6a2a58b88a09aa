package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig tunes the per-client token bucket.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained refill rate.
	RequestsPerSecond float64
	// Burst is the bucket capacity.
	Burst int
}

const (
	limiterIdleTTL   = 10 * time.Minute
	limiterSweepTick = 5 * time.Minute
)

// visitorSet holds one token bucket per client address and evicts buckets
// idle longer than limiterIdleTTL so the map does not grow without bound.
type visitorSet struct {
	cfg RateLimitConfig

	mu      sync.Mutex
	buckets map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newVisitorSet(cfg RateLimitConfig) *visitorSet {
	v := &visitorSet{cfg: cfg, buckets: make(map[string]*visitor)}
	go v.sweep()
	return v
}

func (v *visitorSet) get(addr string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	b, ok := v.buckets[addr]
	if !ok {
		b = &visitor{limiter: rate.NewLimiter(rate.Limit(v.cfg.RequestsPerSecond), v.cfg.Burst)}
		v.buckets[addr] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

func (v *visitorSet) sweep() {
	for {
		time.Sleep(limiterSweepTick)
		v.mu.Lock()
		for addr, b := range v.buckets {
			if time.Since(b.lastSeen) > limiterIdleTTL {
				delete(v.buckets, addr)
			}
		}
		v.mu.Unlock()
	}
}

// RateLimiter enforces a per-client token-bucket limit keyed by the request's
// network address. Requests over the limit get 429 with a Retry-After hint;
// allowed responses carry the usual X-RateLimit-* headers.
func RateLimiter(cfg RateLimitConfig) func(http.Handler) http.Handler {
	visitors := newVisitorSet(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := visitors.get(clientIP(r))

			res := limiter.Reserve()
			if !res.OK() {
				rejectRateLimited(w, 0)
				return
			}
			if delay := res.Delay(); delay > 0 {
				// Granting this request would need a wait; reject instead.
				res.Cancel()
				rejectRateLimited(w, int(delay.Seconds())+1)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the host part of RemoteAddr. X-Forwarded-For is caller-supplied
// and would let a client rotate buckets at will, so it is never consulted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func rejectRateLimited(w http.ResponseWriter, retryAfterSecs int) {
	if retryAfterSecs > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    http.StatusTooManyRequests,
		"message": "rate limit exceeded",
	})
}
