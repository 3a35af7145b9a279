package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskly/tasks-api/internal/api/shared"
	"github.com/taskly/tasks-api/internal/mocks"
	"github.com/taskly/tasks-api/internal/service/auth"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		expectedStatus int
		expectedToken  string
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: userID, Username: "alice"},
			expectedStatus: http.StatusOK,
			expectedToken:  "valid-token",
		},
		{
			name:           "lowercase scheme",
			authHeader:     "bearer valid-token",
			claims:         &auth.Claims{UserID: userID, Username: "alice"},
			expectedStatus: http.StatusOK,
			expectedToken:  "valid-token",
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "basic scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "refresh token used as access token",
			authHeader:     "Bearer refresh-token",
			validateErr:    auth.ErrWrongTokenType,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer weird-token",
			validateErr:    errors.New("boom"),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotToken string
			jwtService := &mocks.MockJWTService{
				ValidateTokenFn: func(ctx context.Context, tok string) (*auth.Claims, error) {
					gotToken = tok
					return tt.claims, tt.validateErr
				},
			}
			middleware := NewAuthMiddleware(jwtService)

			var captured shared.Identity
			called := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				captured, _ = shared.GetIdentity(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			middleware.Authenticate(nextHandler).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.True(t, called)
				assert.Equal(t, tt.expectedToken, gotToken)
				assert.Equal(t, userID, captured.UserID)
				assert.Equal(t, "alice", captured.Username)
				return
			}

			assert.False(t, called, "next handler must not run when authentication fails")
			assert.Contains(t, recorder.Header().Get("WWW-Authenticate"), "Bearer")
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestNewAuthMiddleware_NilService(t *testing.T) {
	assert.Panics(t, func() { NewAuthMiddleware(nil) })
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("Bearer  abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer", "Bearer ", "Token abc", "Bearer a b"} {
		_, ok := bearerToken(h)
		assert.False(t, ok, "header %q", h)
	}
}
