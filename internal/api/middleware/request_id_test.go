package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskly/tasks-api/internal/api/shared"
	"github.com/taskly/tasks-api/internal/platform/logger"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		inbound  string
		wantKept bool
	}{
		{"kept", "client-id-123", true},
		{"generated when absent", "", false},
		{"replaced when unprintable", "bad\x01id", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, logBuf := logger.NewTestLogger(t)

			var ctxID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID = shared.GetRequestID(r.Context())
				logger.FromContext(r.Context()).Info("inside handler")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks/", nil)
			if tc.inbound != "" {
				req.Header.Set(shared.RequestIDHeader, tc.inbound)
			}
			w := httptest.NewRecorder()

			RequestID(log)(next).ServeHTTP(w, req)

			echoed := w.Header().Get(shared.RequestIDHeader)
			assert.Equal(t, ctxID, echoed)
			if tc.wantKept {
				assert.Equal(t, tc.inbound, echoed)
			} else {
				_, err := uuid.Parse(echoed)
				assert.NoError(t, err)
			}

			entries := logBuf.EntriesWithMessage(t, "inside handler")
			require.Len(t, entries, 1)
			assert.Equal(t, echoed, entries[0]["request_id"])
		})
	}
}
