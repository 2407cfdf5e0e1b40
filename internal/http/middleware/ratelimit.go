package middleware

import (
	"net/http"
	"sync"
	"time"
)

// visitor tracks the token bucket for one client IP.
type visitor struct {
	tokens float64
	seen   time.Time
}

// Throttle limits requests per client IP with a token bucket. Buckets
// refill at rate tokens per second up to burst.
type Throttle struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     float64
	burst    float64
}

func NewThrottle(rate float64, burst int) *Throttle {
	t := &Throttle{
		visitors: make(map[string]*visitor),
		rate:     rate,
		burst:    float64(burst),
	}
	go t.evictIdle()
	return t
}

// Allow refills the bucket for ip and consumes one token if available.
func (t *Throttle) Allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{tokens: t.burst, seen: now}
		t.visitors[ip] = v
	}

	v.tokens += now.Sub(v.seen).Seconds() * t.rate
	if v.tokens > t.burst {
		v.tokens = t.burst
	}
	v.seen = now

	if v.tokens < 1 {
		return false
	}
	v.tokens--
	return true
}

// evictIdle drops buckets for IPs not seen in the last ten minutes.
func (t *Throttle) evictIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		t.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for ip, v := range t.visitors {
			if v.seen.Before(cutoff) {
				delete(t.visitors, ip)
			}
		}
		t.mu.Unlock()
	}
}

// RateLimit throttles the public booking routes per client IP. Requests
// over the limit get a JSON 429.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	throttle := NewThrottle(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}
			if !throttle.Allow(ip) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many requests"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
