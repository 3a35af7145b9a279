package api

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskly/tasks-api/internal/domain"
)

func TestParseTaskQuery_Defaults(t *testing.T) {
	q, err := parseTaskQuery(url.Values{})

	require.NoError(t, err)
	assert.Empty(t, q.Search)
	assert.Nil(t, q.IsCompleted)
	assert.Nil(t, q.CreatedFrom)
	assert.Nil(t, q.CreatedTo)
	assert.Equal(t, domain.DefaultOrdering, q.Ordering)
}

func TestParseTaskQuery_Booleans(t *testing.T) {
	for raw, want := range map[string]bool{"true": true, "TRUE": true, "1": true, "false": false, "False": false, "0": false} {
		q, err := parseTaskQuery(url.Values{"is_completed": {raw}})
		require.NoError(t, err, raw)
		require.NotNil(t, q.IsCompleted, raw)
		assert.Equal(t, want, *q.IsCompleted, raw)
	}

	_, err := parseTaskQuery(url.Values{"is_completed": {"yes"}})
	require.Error(t, err)
	assert.Contains(t, domain.FieldErrors(err), "is_completed")
}

func TestParseTaskQuery_Timestamps(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-03-01T10:20:30", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2025-03-01T10:20:30.5", time.Date(2025, 3, 1, 10, 20, 30, 500000000, time.UTC)},
		{"2025-03-01T10:20:30Z", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2025-03-01T12:20:30+02:00", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2025-03-01T10:20:30.123456Z", time.Date(2025, 3, 1, 10, 20, 30, 123456000, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			q, err := parseTaskQuery(url.Values{"created_from": {tc.raw}, "created_to": {tc.raw}})
			require.NoError(t, err)
			require.NotNil(t, q.CreatedFrom)
			require.NotNil(t, q.CreatedTo)
			assert.True(t, tc.want.Equal(*q.CreatedFrom), "got %v", *q.CreatedFrom)
			assert.Equal(t, time.UTC, q.CreatedFrom.Location())
		})
	}
}

func TestParseTaskQuery_InvalidTimestamps(t *testing.T) {
	_, err := parseTaskQuery(url.Values{
		"created_from": {"01/03/2025"},
		"created_to":   {"2025-13-40"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	fields := domain.FieldErrors(err)
	assert.Contains(t, fields, "created_from")
	assert.Contains(t, fields, "created_to")
}

func TestParseTaskQuery_SearchAndOrdering(t *testing.T) {
	q, err := parseTaskQuery(url.Values{
		"search":   {"  50%_off  "},
		"ordering": {"bogus,-title"},
	})

	require.NoError(t, err)
	assert.Equal(t, "50%_off", q.Search)
	assert.Equal(t, []domain.OrderTerm{{Field: domain.OrderByTitle, Desc: true}}, q.Ordering)

	q, err = parseTaskQuery(url.Values{"ordering": {"owner"}})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOrdering, q.Ordering, "unknown terms fall back to the default")
}
