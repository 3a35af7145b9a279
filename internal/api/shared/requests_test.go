package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskly/tasks-api/internal/domain"
)

type sampleRequest struct {
	Username string `json:"username" validate:"required,max=10"`
	Password string `json:"password" validate:"required"`
	Done     *bool  `json:"is_completed"`
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if s.ok {
		return nil
	}
	return domain.NewValidationError("x", "bad", nil)
}

func decode(t *testing.T, body string, v interface{}) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return DecodeJSON(httptest.NewRecorder(), req, v)
}

func TestDecodeJSON(t *testing.T) {
	var req sampleRequest
	require.NoError(t, decode(t, `{"username":"bob","password":"pw","unknown":1}`, &req))
	assert.Equal(t, "bob", req.Username)
	assert.Nil(t, req.Done)
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"empty body", "", ""},
		{"malformed", `{"username":`, ""},
		{"wrong type", `{"is_completed":"yes"}`, "is_completed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req sampleRequest
			err := decode(t, tc.body, &req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.wantField, ve.Field)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sampleRequest{Username: "bob", Password: "x"}))

	err := ValidateRequest(&sampleRequest{Username: "waytoolongname"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	fields := domain.FieldErrors(err)
	assert.Equal(t, "Ensure this field has no more than 10 characters.", fields["username"])
	assert.Equal(t, "This field is required.", fields["password"])
}

func TestValidateRequest_UsesValidateMethod(t *testing.T) {
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), domain.ErrValidation)
}
