package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type for request-scoped values set by the api layer.
type ContextKey string

const (
	// IdentityContextKey holds the authenticated caller.
	IdentityContextKey ContextKey = "identity"

	// RequestIDKey holds the correlation id of the current request.
	RequestIDKey ContextKey = "requestID"

	// RequestIDHeader is read from requests and echoed on responses.
	RequestIDHeader = "X-Request-ID"

	// MaxRequestIDLength bounds client-supplied correlation ids.
	MaxRequestIDLength = 128
)

// Identity is the caller resolved from a valid access token.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// WithIdentity stores the caller identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, id)
}

// GetIdentity returns the caller identity and whether one was set.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityContextKey).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, false
	}
	return id, true
}

// WithRequestID stores the correlation id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the correlation id from the context.
// If none exists, it returns an empty string.
func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return requestID
}

// SanitizeRequestID returns the trimmed inbound id when it is usable,
// otherwise a freshly generated UUIDv4.
func SanitizeRequestID(inbound string) string {
	candidate := strings.TrimSpace(inbound)
	if candidate == "" || len(candidate) > MaxRequestIDLength {
		return uuid.NewString()
	}
	for i := 0; i < len(candidate); i++ {
		// printable ASCII only
		if c := candidate[i]; c < 0x20 || c > 0x7e {
			return uuid.NewString()
		}
	}
	return candidate
}
