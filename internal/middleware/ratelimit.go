// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"topichub/internal/notice"
	"topichub/internal/render"
)

// RateLimiter throttles credential attempts per client IP over a sliding
// window. Sign-up and sign-in share one limiter so a client cannot double
// its budget by alternating forms.
type RateLimiter struct {
	mu        sync.Mutex
	attempts  map[string][]time.Time
	limit     int
	window    time.Duration
	proxied   bool // trust X-Forwarded-For / X-Real-IP
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows limit attempts per window for each client. When
// proxied is true the client address is taken from the forwarding headers
// set by a trusted reverse proxy; otherwise only the connection address
// is used, since those headers are client-controlled.
func NewRateLimiter(limit int, window time.Duration, proxied bool) *RateLimiter {
	return &RateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		proxied:  proxied,
		now:      time.Now,
	}
}

// allow records an attempt for key. When the limit is reached it returns
// false and how long until the oldest attempt leaves the window.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)
	if now.Sub(rl.lastSweep) >= rl.window {
		rl.sweep(cutoff)
		rl.lastSweep = now
	}

	recent := within(rl.attempts[key], cutoff)
	if len(recent) >= rl.limit {
		rl.attempts[key] = recent
		return false, recent[0].Sub(cutoff)
	}
	rl.attempts[key] = append(recent, now)
	return true, 0
}

// sweep drops clients whose attempts have all left the window.
func (rl *RateLimiter) sweep(cutoff time.Time) {
	for key, ts := range rl.attempts {
		if len(within(ts, cutoff)) == 0 {
			delete(rl.attempts, key)
		}
	}
}

// within returns the suffix of ts after cutoff. ts is in ascending order.
func within(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}

// Middleware rejects requests over the limit with 429, Retry-After and a
// warning notice.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.allow(rl.clientIP(r))
		if !ok {
			secs := max(1, int(math.Ceil(wait.Seconds())))
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			render.Message(w, r, http.StatusTooManyRequests, notice.LevelWarning, notice.TooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) clientIP(r *http.Request) string {
	if rl.proxied {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
