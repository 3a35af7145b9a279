package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskly/tasks-api/internal/api/shared"
	"github.com/taskly/tasks-api/internal/domain"
	"github.com/taskly/tasks-api/internal/platform/logger"
	"github.com/taskly/tasks-api/internal/service/auth"
)

// getPathUUID extracts and parses a UUID path parameter. A missing or
// malformed value is reported as domain.ErrInvalidID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.ErrInvalidID
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidID
	}

	return id, nil
}

// requireIdentity returns the authenticated caller, writing a 401 when the
// auth middleware did not run.
func requireIdentity(w http.ResponseWriter, r *http.Request, log *slog.Logger) (shared.Identity, bool) {
	id, ok := shared.GetIdentity(r.Context())
	if !ok {
		log.Warn("identity not found in request context")
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return shared.Identity{}, false
	}
	return id, true
}

// handleIdentityAndPathUUID extracts both the caller and a UUID path
// parameter, writing the error response if either is missing. A malformed
// id is a 404, the same as an unknown one.
func handleIdentityAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (shared.Identity, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContext(r.Context())
	}

	id, ok := requireIdentity(w, r, log)
	if !ok {
		return shared.Identity{}, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return shared.Identity{}, uuid.Nil, false
	}

	return id, pathID, true
}

// fullPath is the request path including the raw query string.
func fullPath(r *http.Request) string {
	return r.URL.RequestURI()
}
