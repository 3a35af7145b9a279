package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taskly/tasks-api/internal/api/shared"
	"github.com/taskly/tasks-api/internal/platform/logger"
)

// RequestID assigns every request a correlation id. A usable inbound
// X-Request-ID is kept, anything else is replaced by a UUIDv4. The id is
// echoed on the response and attached to a request-scoped logger so every
// log line of the request carries it.
func RequestID(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := shared.SanitizeRequestID(r.Header.Get(shared.RequestIDHeader))
			w.Header().Set(shared.RequestIDHeader, requestID)

			log := logger.FromContextOrDefault(r.Context(), base).With(slog.String("request_id", requestID))
			ctx := shared.WithRequestID(r.Context(), requestID)
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
