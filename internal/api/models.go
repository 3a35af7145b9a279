package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskly/tasks-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
// Username and password rules live on domain.User; the tags only catch
// missing fields early.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// TokenRequest defines the payload for obtaining a token pair.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// RefreshTokenResponse carries a new access token.
type RefreshTokenResponse struct {
	Access string `json:"access"`
}

// TaskRequest is the body of create, update and partial update. Pointer
// fields tell "absent" apart from "empty". Read-only fields such as id,
// owner and creation_date are not declared, so clients cannot set them.
type TaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`

	// explicit JSON nulls, which decode to nil like absent fields
	nulls []string
}

var taskRequestFields = []string{"title", "description", "is_completed"}

// UnmarshalJSON decodes the body and remembers which fields were sent as null.
func (r *TaskRequest) UnmarshalJSON(data []byte) error {
	type plain TaskRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.nulls = nil
	for _, name := range taskRequestFields {
		if v, ok := raw[name]; ok && string(v) == "null" {
			r.nulls = append(r.nulls, name)
		}
	}
	return nil
}

// Validate rejects null fields and text the task model would refuse.
func (r *TaskRequest) Validate() error {
	var errs []error
	for _, name := range r.nulls {
		errs = append(errs, domain.NewValidationError(name, "This field may not be null.", domain.ErrInvalidFormat))
	}
	if r.Title != nil {
		if err := domain.ValidateTitle(domain.NormalizeText(*r.Title)); err != nil {
			errs = append(errs, err)
		}
	}
	if r.Description != nil {
		if err := domain.ValidateDescription(*r.Description); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID           uuid.UUID `json:"id"`
	Owner        uuid.UUID `json:"owner"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CreationDate time.Time `json:"creation_date"`
	IsCompleted  bool      `json:"is_completed"`
}

// StatusResponse reports the outcome of an action that has no resource body.
type StatusResponse struct {
	Status string `json:"status"`
}

// Outcomes of the complete action.
const (
	StatusTaskCompleted        = "task marked as completed"
	StatusTaskAlreadyCompleted = "task already completed"
)

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		Owner:        task.OwnerID,
		Title:        task.Title,
		Description:  task.Description,
		CreationDate: task.CreationDate.UTC(),
		IsCompleted:  task.IsCompleted,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}
