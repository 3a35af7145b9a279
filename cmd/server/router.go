package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskly/tasks-api/internal/api"
	apiMiddleware "github.com/taskly/tasks-api/internal/api/middleware"
	"github.com/taskly/tasks-api/internal/api/shared"
)

// setupRouter creates the application router with all routes and middleware.
// Paths match with or without a trailing slash.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.RequestID(app.logger))
	if app.metrics != nil {
		r.Use(app.metrics.Middleware)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.auditRecorder, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public, rate limited when configured)
		r.Group(func(r chi.Router) {
			if app.limiter != nil {
				r.Use(apiMiddleware.RateLimit(app.limiter))
			}
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/token", authHandler.Token)
			r.Post("/auth/token/refresh", authHandler.RefreshToken)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/tasks", taskHandler.ListTasks)
			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Patch("/tasks/{id}", taskHandler.PatchTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
			r.Post("/tasks/{id}/complete", taskHandler.CompleteTask)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	if app.metrics != nil {
		r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	}

	return r
}
