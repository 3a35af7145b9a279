package shared

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := GetIdentity(ctx)
	assert.False(t, ok, "Expected no identity in a bare context")

	want := Identity{UserID: uuid.New(), Username: "alice"}
	got, ok := GetIdentity(WithIdentity(ctx, want))
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestGetIdentityRejectsNilUser(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{Username: "ghost"})
	_, ok := GetIdentity(ctx)
	assert.False(t, ok)
}

func TestGetRequestID(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))

	// Wrong value type
	ctx = context.WithValue(context.Background(), RequestIDKey, 123)
	assert.Empty(t, GetRequestID(ctx))
}

func TestSanitizeRequestID(t *testing.T) {
	assert.Equal(t, "abc-123", SanitizeRequestID("  abc-123 "))
	assert.Equal(t, strings.Repeat("a", MaxRequestIDLength), SanitizeRequestID(strings.Repeat("a", MaxRequestIDLength)))

	replaced := []string{
		"",
		"   ",
		strings.Repeat("a", MaxRequestIDLength+1),
		"bad\nid",
		"café",
	}
	for _, in := range replaced {
		got := SanitizeRequestID(in)
		_, err := uuid.Parse(got)
		assert.NoError(t, err, "input %q should be replaced by a uuid, got %q", in, got)
	}

	assert.NotEqual(t, SanitizeRequestID(""), SanitizeRequestID(""), "generated ids must be unique")
}
