package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeValidationFailed: http.StatusBadRequest,
		CodeNotFound:         http.StatusNotFound,
		CodeConflict:         http.StatusConflict,
		CodeNoCandidates:     http.StatusUnprocessableEntity,
		CodeDatabaseError:    http.StatusInternalServerError,
		CodeTooManyRequests:  http.StatusTooManyRequests,
	}

	for code, want := range cases {
		t.Run(string(code), func(t *testing.T) {
			assert.Equal(t, want, NewAppError(code, "msg", "").StatusCode())
		})
	}
}

func TestIsMatchesWrappedErrors(t *testing.T) {
	base := NewProductNotFoundError("milk")
	wrapped := fmt.Errorf("consume: %w", base)

	assert.True(t, Is(wrapped, CodeNotFound))
	assert.False(t, Is(wrapped, CodeConflict))
	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}

func TestPersistenceErrorKeepsCause(t *testing.T) {
	cause := stderrors.New("disk full")

	err := NewPersistenceError("save pantry", cause)

	assert.Equal(t, CodeDatabaseError, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save pantry")
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	appErr := NewNoCurrentMenuError()
	assert.Same(t, appErr, Wrap(appErr, "ignored"))

	wrapped := Wrap(stderrors.New("boom"), "load menu")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.Equal(t, "load menu", wrapped.Message)
}

func TestValidationErrorsJoinMessages(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "name", Tag: "required", Message: "name is required"},
		{Field: "unit", Tag: "required", Message: "unit is required"},
	})

	assert.Equal(t, CodeValidationFailed, err.Code)
	assert.Equal(t, "name is required; unit is required", err.Details)
	assert.Len(t, err.Metadata["validation_errors"], 2)
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(NewMealSlotNotFoundError("lunch"), "req-1")

	assert.Equal(t, CodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Equal(t, "lunch", resp.Error.Metadata["meal_slot"])
	assert.NotEmpty(t, resp.Error.Timestamp)
}
