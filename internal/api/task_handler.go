package api

import (
	"log/slog"
	"net/http"

	"github.com/taskly/tasks-api/internal/api/shared"
	"github.com/taskly/tasks-api/internal/audit"
	"github.com/taskly/tasks-api/internal/domain"
	"github.com/taskly/tasks-api/internal/platform/logger"
	"github.com/taskly/tasks-api/internal/service"
)

// TaskHandler serves the /api/tasks endpoints. Every action is scoped to
// the authenticated caller and records one audit event on success.
type TaskHandler struct {
	taskService service.TaskService
	audit       audit.Recorder
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler. A nil recorder disables auditing.
func NewTaskHandler(taskService service.TaskService, recorder audit.Recorder, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	if recorder == nil {
		recorder = audit.Nop{}
	}

	return &TaskHandler{
		taskService: taskService,
		audit:       recorder,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks/
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := requireIdentity(w, r, log)
	if !ok {
		return
	}

	q, err := parseTaskQuery(r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), caller.UserID, q)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	h.record(r, caller, audit.Event{Kind: audit.TaskListed, Status: http.StatusOK, Count: len(tasks)})
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// CreateTask handles POST /api/tasks/
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := requireIdentity(w, r, log)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if req.Title == nil {
		HandleAPIError(w, r, errTitleRequired(), "")
		return
	}

	params := service.CreateTaskParams{Title: *req.Title}
	if req.Description != nil {
		params.Description = *req.Description
	}

	task, err := h.taskService.CreateTask(r.Context(), caller.UserID, params)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task created", slog.String("task_id", task.ID.String()))
	h.record(r, caller, audit.Event{
		Kind:   audit.TaskCreated,
		Status: http.StatusCreated,
		TaskID: task.ID,
		Title:  task.Title,
	})
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /api/tasks/{id}/
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, taskID, ok := handleIdentityAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), caller.UserID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.record(r, caller, audit.Event{Kind: audit.TaskRetrieved, Status: http.StatusOK, TaskID: task.ID})
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id}/. The title must be present.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// PatchTask handles PATCH /api/tasks/{id}/. Any subset of fields may be sent.
func (h *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *TaskHandler) update(w http.ResponseWriter, r *http.Request, requireTitle bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, taskID, ok := handleIdentityAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if requireTitle && req.Title == nil {
		HandleAPIError(w, r, errTitleRequired(), "")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), caller.UserID, taskID, service.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.record(r, caller, audit.Event{
		Kind:   audit.TaskUpdated,
		Status: http.StatusOK,
		TaskID: task.ID,
		Title:  task.Title,
	})
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id}/
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, taskID, ok := handleIdentityAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.DeleteTask(r.Context(), caller.UserID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.record(r, caller, audit.Event{
		Kind:   audit.TaskDeleted,
		Status: http.StatusNoContent,
		TaskID: task.ID,
		Title:  task.Title,
	})
	w.WriteHeader(http.StatusNoContent)
}

// CompleteTask handles POST /api/tasks/{id}/complete/. Completing an
// already completed task succeeds without changing anything.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, taskID, ok := handleIdentityAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, changed, err := h.taskService.CompleteTask(r.Context(), caller.UserID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	status := StatusTaskCompleted
	if !changed {
		status = StatusTaskAlreadyCompleted
	}

	h.record(r, caller, audit.Event{
		Kind:             audit.TaskCompleted,
		Status:           http.StatusOK,
		TaskID:           task.ID,
		Title:            task.Title,
		AlreadyCompleted: !changed,
	})
	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: status})
}

// record fills in the request-derived fields of ev and hands it to the recorder.
func (h *TaskHandler) record(r *http.Request, caller shared.Identity, ev audit.Event) {
	ev.Actor = caller.Username
	ev.Method = r.Method
	ev.Path = fullPath(r)
	ev.RequestID = shared.GetRequestID(r.Context())
	h.audit.Record(r.Context(), ev)
}

func errTitleRequired() error {
	return domain.NewValidationError("title", "This field is required.", nil)
}
