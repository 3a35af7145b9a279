package api

import (
	"errors"
	"net/http"

	"github.com/taskly/tasks-api/internal/api/shared"
	"github.com/taskly/tasks-api/internal/domain"
	"github.com/taskly/tasks-api/internal/service"
	"github.com/taskly/tasks-api/internal/service/auth"
	"github.com/taskly/tasks-api/internal/store"
)

// Messages shared by several handlers.
const (
	msgNotFound         = "Not found."
	msgInvalidRequest   = "Invalid request."
	msgInvalidCreds     = "No active account found with the given credentials"
	msgInvalidRefresh   = "Token is invalid or expired"
	msgUnexpectedError  = "An unexpected error occurred"
	msgUsernameConflict = "A user with that username already exists."
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
//
// A task owned by someone else is reported exactly like a missing one.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors, including ownership mismatches
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrUsernameExists),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpectedError
	}

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication credentials were not provided."

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return msgInvalidRefresh

	case errors.Is(err, auth.ErrInvalidCredentials):
		return msgInvalidCreds

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidID):
		return msgNotFound

	case errors.Is(err, store.ErrUsernameExists):
		return msgUsernameConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidRequest

	default:
		return msgUnexpectedError
	}
}

// fieldErrorsFor returns the per-field detail carried by err, if any.
// Duplicate usernames are reported against the username field.
func fieldErrorsFor(err error) map[string]string {
	fields := domain.FieldErrors(err)
	if errors.Is(err, store.ErrUsernameExists) {
		fields["username"] = msgUsernameConflict
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// HandleAPIError writes the error response for err. Status and message come
// from MapErrorToStatusCode and GetSafeErrorMessage unless customMessage is
// set; the full error is only logged, after redaction.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, customMessage string) {
	status := MapErrorToStatusCode(err)

	message := customMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	opts := []shared.ResponseOption{shared.WithFields(fieldErrorsFor(err))}
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithHeader("WWW-Authenticate", `Bearer realm="api"`))
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
