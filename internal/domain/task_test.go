package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	owner := uuid.New()

	task, err := NewTask(owner, "  Buy milk  ", "  two litres ")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, owner, task.OwnerID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "two litres", task.Description)
	assert.False(t, task.IsCompleted, "new tasks start open")
	assert.WithinDuration(t, time.Now().UTC(), task.CreationDate, 5*time.Second)
	assert.Equal(t, time.UTC, task.CreationDate.Location())
}

func TestNewTask_Invalid(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name    string
		owner   uuid.UUID
		title   string
		field   string
		wantErr error
	}{
		{"blank title", owner, "   ", "title", ErrEmptyTitle},
		{"empty title", owner, "", "title", ErrEmptyTitle},
		{"title too long", owner, strings.Repeat("a", MaxTitleLength+1), "title", ErrTitleTooLong},
		{"missing owner", uuid.Nil, "ok", "owner", ErrEmptyOwnerID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.owner, tt.title, "")
			require.Error(t, err)
			assert.Nil(t, task)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, FieldErrors(err), tt.field)
		})
	}
}

func TestNewTask_RejectsNulCharacters(t *testing.T) {
	task, err := NewTask(uuid.New(), "a\x00b", "c\x00d")

	require.Error(t, err)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, ErrNullCharacter)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	fields := FieldErrors(err)
	assert.Equal(t, "Null characters are not allowed.", fields["title"])
	assert.Equal(t, "Null characters are not allowed.", fields["description"])

	assert.NoError(t, ValidateDescription("plain text"))
}

func TestValidateTitle_CountsCharactersNotBytes(t *testing.T) {
	title := strings.Repeat("é", MaxTitleLength)
	assert.Greater(t, len(title), MaxTitleLength)
	assert.NoError(t, ValidateTitle(title))
	assert.Error(t, ValidateTitle(title+"é"))
}

func TestTask_Validate_ReportsEveryField(t *testing.T) {
	task := &Task{}

	err := task.Validate()
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Len(t, fields, 4)
	for _, f := range []string{"id", "owner", "title", "creation_date"} {
		assert.Contains(t, fields, f)
	}
}

func TestTask_Complete(t *testing.T) {
	task, err := NewTask(uuid.New(), "Write report", "")
	require.NoError(t, err)

	assert.True(t, task.Complete(), "first completion changes state")
	assert.True(t, task.IsCompleted)

	assert.False(t, task.Complete(), "second completion is a no-op")
	assert.True(t, task.IsCompleted)
}

func TestTask_OwnedBy(t *testing.T) {
	owner := uuid.New()
	task := &Task{OwnerID: owner}

	assert.True(t, task.OwnedBy(owner))
	assert.False(t, task.OwnedBy(uuid.New()))
	assert.False(t, task.OwnedBy(uuid.Nil))
	assert.False(t, (&Task{}).OwnedBy(uuid.Nil), "a nil owner never matches")
}

func TestFieldErrors(t *testing.T) {
	joined := errors.Join(
		NewValidationError("title", "first", nil),
		NewValidationError("title", "second", nil),
		errors.New("unrelated"),
	)
	wrapped := NewValidationError("created_from", "bad date", ErrInvalidFormat)

	fields := FieldErrors(errors.Join(joined, wrapped))

	assert.Equal(t, map[string]string{
		"title":        "first",
		"created_from": "bad date",
	}, fields)
	assert.Empty(t, FieldErrors(nil))
	assert.Empty(t, FieldErrors(errors.New("plain")))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("is_completed", "Must be a valid boolean.", ErrInvalidFormat)

	assert.Equal(t, "is_completed: Must be a valid boolean.", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	var ve *ValidationError
	require.ErrorAs(t, errors.Join(errors.New("x"), err), &ve)
	assert.Equal(t, "is_completed", ve.Field)

	assert.Equal(t, "no field", NewValidationError("", "no field", nil).Error())
}
