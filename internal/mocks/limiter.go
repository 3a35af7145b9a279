package mocks

import (
	"context"

	"github.com/taskly/tasks-api/internal/platform/ratelimit"
)

// MockLimiter implements ratelimit.Limiter for testing. Without AllowFn
// every request is allowed.
type MockLimiter struct {
	AllowFn func(ctx context.Context, key string) (*ratelimit.Result, error)

	Keys []string
}

// Allow implements ratelimit.Limiter
func (m *MockLimiter) Allow(ctx context.Context, key string) (*ratelimit.Result, error) {
	m.Keys = append(m.Keys, key)
	if m.AllowFn != nil {
		return m.AllowFn(ctx, key)
	}
	return &ratelimit.Result{Allowed: true, Limit: 1, Remaining: 1}, nil
}
