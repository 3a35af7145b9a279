// Package mocks provides function-field fakes of the service and store
// interfaces for handler and middleware tests.
//
// Each mock exposes an XxxFn field per method. When a field is nil the mock
// falls back to simple default behavior (zero values, or an in-memory map
// for MockUserStore), so tests only override what they care about:
//
//	jwt := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, tok string) (*auth.Claims, error) {
//	        return nil, auth.ErrExpiredToken
//	    },
//	}
package mocks
