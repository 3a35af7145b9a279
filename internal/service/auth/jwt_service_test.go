package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskly/tasks-api/internal/config"
)

const testSecret = "test-jwt-secret-that-is-32-chars-long"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   testSecret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

func newTestService(t *testing.T, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(testAuthConfig(), now)
	require.NoError(t, err)
	return svc
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	short := testAuthConfig()
	short.JWTSecret = "too-short"
	_, err = NewJWTService(short)
	assert.Error(t, err)

	zero := testAuthConfig()
	zero.TokenLifetimeMinutes = 0
	_, err = NewJWTService(zero)
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, fixedClock(fixedTime))
	userID := uuid.New()
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, userID, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Failures(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	ctx := context.Background()

	issuer := newTestService(t, fixedClock(issued))
	access, err := issuer.GenerateToken(ctx, userID, "alice")
	require.NoError(t, err)
	refresh, err := issuer.GenerateRefreshToken(ctx, userID, "alice")
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "another-secret-that-is-also-32-chars!!"
	forger, err := newHMACJWTService(otherCfg, fixedClock(issued))
	require.NoError(t, err)
	forged, err := forger.GenerateToken(ctx, userID, "alice")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid":  userID.String(),
		"type": TokenTypeAccess,
		"exp":  issued.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		token   string
		wantErr error
	}{
		{"expired beyond skew", issued.Add(2 * time.Hour), access, ErrExpiredToken},
		{"issued in the future is still fine", issued.Add(-time.Minute), access, nil},
		{"wrong signature", issued, forged, ErrInvalidToken},
		{"malformed", issued, "not.a.token", ErrInvalidToken},
		{"unsigned", issued, noneToken, ErrInvalidToken},
		{"refresh used as access", issued, refresh, ErrWrongTokenType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, fixedClock(tt.now))
			claims, err := svc.ValidateToken(ctx, tt.token)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	ctx := context.Background()
	issuer := newTestService(t, fixedClock(issued))

	refresh, err := issuer.GenerateRefreshToken(ctx, userID, "bob")
	require.NoError(t, err)
	access, err := issuer.GenerateToken(ctx, userID, "bob")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		claims, err := issuer.ValidateRefreshToken(ctx, refresh)
		require.NoError(t, err)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
		assert.Equal(t, "bob", claims.Username)
		assert.Equal(t, issued.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("expired", func(t *testing.T) {
		later := newTestService(t, fixedClock(issued.Add(48*time.Hour)))
		_, err := later.ValidateRefreshToken(ctx, refresh)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	})

	t.Run("access token rejected", func(t *testing.T) {
		_, err := issuer.ValidateRefreshToken(ctx, access)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ValidateRefreshToken(ctx, "garbage")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}
