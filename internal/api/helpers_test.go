package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskly/tasks-api/internal/api/shared"
	"github.com/taskly/tasks-api/internal/domain"
	"github.com/taskly/tasks-api/internal/mocks"
)

var (
	testUserID   = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	testUsername = "alice"
	testCreated  = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTask(title string) *domain.Task {
	return &domain.Task{
		ID:           uuid.New(),
		OwnerID:      testUserID,
		Title:        title,
		CreationDate: testCreated,
	}
}

// newTaskRouter mounts h the way the server does, with the caller identity
// injected in place of the auth middleware.
func newTaskRouter(h *TaskHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.WithIdentity(r.Context(), shared.Identity{UserID: testUserID, Username: testUsername})
			ctx = shared.WithRequestID(ctx, "req-test")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Get("/api/tasks", h.ListTasks)
	r.Post("/api/tasks", h.CreateTask)
	r.Get("/api/tasks/{id}", h.GetTask)
	r.Put("/api/tasks/{id}", h.UpdateTask)
	r.Patch("/api/tasks/{id}", h.PatchTask)
	r.Delete("/api/tasks/{id}", h.DeleteTask)
	r.Post("/api/tasks/{id}/complete", h.CompleteTask)
	return r
}

func newTestTaskHandler(svc *mocks.MockTaskService) (*TaskHandler, *mocks.MockAuditRecorder) {
	rec := &mocks.MockAuditRecorder{}
	return NewTaskHandler(svc, rec, testLogger()), rec
}

func doRequest(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}
