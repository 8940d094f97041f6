// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter caps requests per caller in fixed windows counted in Valkey,
// so every instance shares one budget. Signed-in callers are counted per
// user, anonymous ones per client IP.
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter creates a limiter that allows limit requests per window.
// name separates the counters of different limiters.
func NewRateLimiter(client *redis.Client, name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: "ratelimit:" + name + ":",
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow counts a hit for key and reports whether it is within the limit,
// together with the time left until the window resets.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := rl.now()
	bucket := now.UnixNano() / int64(rl.window)
	counter := fmt.Sprintf("%s%s:%d", rl.prefix, key, bucket)

	var hits *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		hits = p.Incr(ctx, counter)
		p.PExpire(ctx, counter, rl.window)
		return nil
	})
	if err != nil {
		return true, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	reset := time.Unix(0, (bucket+1)*int64(rl.window)).Sub(now)
	return hits.Val() <= rl.limit, reset, nil
}

// Middleware rejects callers over the limit with 429 and a Retry-After
// header. When Valkey is unreachable the request is let through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := callerKey(r)
		ok, reset, err := rl.Allow(r.Context(), key)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "key", key, "error", err)
		}
		if !ok {
			slog.Warn("rate limit exceeded", "key", key, "path", r.URL.Path)
			secs := int((reset + time.Second - 1) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(max(1, secs)))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests. Please wait before trying again.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func callerKey(r *http.Request) string {
	if sess := SessionFromCtx(r.Context()); sess != nil {
		return "user:" + sess.UserID.String()
	}
	return "ip:" + clientIP(r)
}

// clientIP returns the originating client address: the leftmost
// X-Forwarded-For entry, then X-Real-IP, then the connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
