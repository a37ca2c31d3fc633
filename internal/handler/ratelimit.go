package handler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *Handler) incrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	res, err := fixedWindowScript.Run(ctx, h.redisClient, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// rateLimit caps public requests per client IP in fixed windows. It fails
// open: a Redis outage must not take the booking page down.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	limit := int64(h.config.Booking.PublicRateLimit)
	window := time.Duration(h.config.Booking.PublicRateWindow) * time.Second
	if window <= 0 {
		window = time.Minute
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.redisClient == nil || limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		count, err := h.incrWindow(r.Context(), "rl:public:"+clientIP(r), window)
		if err != nil {
			h.logger.Warn("redis rate limiter error", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if count > limit {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			h.errorResponse(w, r, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}

		next.ServeHTTP(w, r)
	})
}
