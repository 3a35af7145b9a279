package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength is the longest title a task may carry, in characters.
const MaxTitleLength = 255

// Task validation errors
var (
	ErrEmptyTaskID    = errors.New("task ID cannot be empty")
	ErrEmptyOwnerID   = errors.New("owner ID cannot be empty")
	ErrEmptyTitle     = errors.New("title cannot be blank")
	ErrTitleTooLong   = errors.New("title is too long")
	ErrMissingCreated = errors.New("creation date cannot be empty")
	ErrNullCharacter  = errors.New("text contains a null character")
)

const nullCharacterMessage = "Null characters are not allowed."

// Task is a single to-do item. Its owner is fixed at creation and every read
// or write of the task is scoped to that owner.
type Task struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	Description  string
	CreationDate time.Time
	IsCompleted  bool
}

// NewTask builds an open task owned by ownerID. Title and description are
// trimmed of surrounding whitespace before validation.
func NewTask(ownerID uuid.UUID, title, description string) (*Task, error) {
	task := &Task{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        NormalizeText(title),
		Description:  NormalizeText(description),
		CreationDate: time.Now().UTC(),
		IsCompleted:  false,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks every field and returns all problems joined together.
func (t *Task) Validate() error {
	var errs []error

	if t.ID == uuid.Nil {
		errs = append(errs, NewValidationError("id", "This field is required.", ErrEmptyTaskID))
	}
	if t.OwnerID == uuid.Nil {
		errs = append(errs, NewValidationError("owner", "This field is required.", ErrEmptyOwnerID))
	}
	if err := ValidateTitle(t.Title); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateDescription(t.Description); err != nil {
		errs = append(errs, err)
	}
	if t.CreationDate.IsZero() {
		errs = append(errs, NewValidationError("creation_date", "This field is required.", ErrMissingCreated))
	}

	return errors.Join(errs...)
}

// ValidateTitle reports whether title is acceptable as a task title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "This field may not be blank.", ErrEmptyTitle)
	}
	if strings.ContainsRune(title, 0) {
		return NewValidationError("title", nullCharacterMessage, errors.Join(ErrNullCharacter, ErrInvalidFormat))
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NewValidationError("title", "Ensure this field has no more than 255 characters.", ErrTitleTooLong)
	}
	return nil
}

// ValidateDescription rejects descriptions PostgreSQL text columns cannot hold.
func ValidateDescription(description string) error {
	if strings.ContainsRune(description, 0) {
		return NewValidationError("description", nullCharacterMessage, errors.Join(ErrNullCharacter, ErrInvalidFormat))
	}
	return nil
}

// Complete marks the task completed. It reports whether anything changed;
// completing a completed task is a no-op.
func (t *Task) Complete() bool {
	if t.IsCompleted {
		return false
	}
	t.IsCompleted = true
	return true
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && t.OwnerID == userID
}

// NormalizeText trims surrounding whitespace from free-text input.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}
