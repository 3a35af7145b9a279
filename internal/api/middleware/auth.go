package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskly/tasks-api/internal/api/shared"
	"github.com/taskly/tasks-api/internal/platform/logger"
	"github.com/taskly/tasks-api/internal/redact"
	"github.com/taskly/tasks-api/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	if jwtService == nil {
		// ALLOW-PANIC: constructor wiring error, not a runtime condition
		panic("jwtService cannot be nil")
	}
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the bearer access token from the Authorization header
// and stores the caller identity in the request context. Every failure is a
// 401 with a WWW-Authenticate challenge; the wrapped handler is not called.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, r, "Authentication credentials were not provided.", auth.ErrMissingToken)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrExpiredToken):
			unauthorized(w, r, "Token has expired", err)
			return
		case errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrWrongTokenType),
			errors.Is(err, auth.ErrTokenNotYetValid):
			unauthorized(w, r, "Invalid token", err)
			return
		default:
			logger.FromContext(r.Context()).Error("failed to validate token",
				slog.String("error", redact.Error(err)))
			unauthorized(w, r, "Invalid token", err)
			return
		}

		ctx := shared.WithIdentity(r.Context(), shared.Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, err,
		shared.WithHeader("WWW-Authenticate", `Bearer realm="api"`))
}
