package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create appointment: %w", NewSlotOccupied("2025-06-10", "09:00"))

	assert.True(t, IsCode(err, CodeSlotOccupied))
	assert.False(t, IsCode(err, CodeDateBlocked))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(err))
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := NewDateBlocked("2025-06-11")

	assert.True(t, errors.Is(err, &AppError{Code: CodeDateBlocked}))
	assert.False(t, errors.Is(err, &AppError{Code: CodeValidation}))
}

func TestGetHTTPStatusDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
}

func TestRemoteCallKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewRemoteCall("stripe", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.Contains(t, err.Error(), "connection refused")
}
