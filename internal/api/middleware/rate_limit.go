package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/taskly/tasks-api/internal/api/shared"
	"github.com/taskly/tasks-api/internal/platform/logger"
	"github.com/taskly/tasks-api/internal/platform/ratelimit"
	"github.com/taskly/tasks-api/internal/redact"
)

// RateLimit rejects requests over the limiter's budget with 429 and a
// Retry-After header. Requests are keyed by client IP and path, so run it
// after chi's RealIP. A limiter error lets the request through.
func RateLimit(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	return rateLimit(limiter, time.Now)
}

func rateLimit(limiter ratelimit.Limiter, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r) + ":" + r.URL.Path

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.FromContext(r.Context()).Warn("rate limiter unavailable, allowing request",
					slog.String("error", redact.Error(err)))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				retryAfter := result.RetryAfter(now())
				shared.RespondWithError(w, r, http.StatusTooManyRequests,
					"Request was throttled. Try again later.",
					shared.WithHeader("Retry-After", strconv.Itoa(int(retryAfter.Seconds()))))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
