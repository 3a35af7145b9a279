// Package api handles incoming HTTP requests, request validation and
// response formatting for the auth and task endpoints. It translates HTTP
// concerns into calls on the task service and user store, and maps their
// errors to status codes in one place (MapErrorToStatusCode).
package api
