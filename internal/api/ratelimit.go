package api

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimiter applies a per-client sliding window over request timestamps.
// State is in-process; a multi-instance deployment rate-limits per instance.
type rateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
	lastGC time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (rl *rateLimiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	recent := rl.hits[client][:0]
	for _, t := range rl.hits[client] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.hits[client] = recent
		return false
	}

	rl.hits[client] = append(recent, now)

	if now.Sub(rl.lastGC) > rl.window {
		rl.gc(cutoff)
		rl.lastGC = now
	}
	return true
}

// gc drops clients whose entire history fell out of the window. Called with
// the mutex held.
func (rl *rateLimiter) gc(cutoff time.Time) {
	for client, ts := range rl.hits {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(rl.hits, client)
		}
	}
}

func rateLimitMiddleware(next http.Handler, limit int, window time.Duration) http.Handler {
	if limit <= 0 {
		return next
	}
	rl := newRateLimiter(limit, window)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !rl.allow(host) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
