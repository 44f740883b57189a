package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/trelloflash/internal/session"
	"github.com/vytor/trelloflash/internal/trello"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"unauthorized", fmt.Errorf("%w: status 401", trello.ErrUnauthorized), ErrCodeUnauthorized, http.StatusUnauthorized},
		{"unreachable", fmt.Errorf("%w: status 500", trello.ErrServiceUnreachable), ErrCodeServiceUnreachable, http.StatusServiceUnavailable},
		{"out of range", fmt.Errorf("position 7: %w", session.ErrOutOfRange), ErrCodeOutOfRange, http.StatusBadRequest},
		{"other", stderrors.New("disk full"), ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomain(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.Status)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromDomain_PassesAppErrorThrough(t *testing.T) {
	orig := NewConflictError("session already has a deck")
	wrapped := fmt.Errorf("reload: %w", orig)

	assert.Same(t, orig, FromDomain(wrapped))
	assert.Nil(t, FromDomain(nil))
}

func TestAs(t *testing.T) {
	appErr, ok := As(fmt.Errorf("wrap: %w", NewNotFoundError("session", "abc")))
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, appErr.Code)
	assert.Equal(t, "session not found: abc", appErr.Message)

	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST: missing list_id", NewBadRequestError("missing list_id").Error())
	assert.Contains(t, NewInternalError(stderrors.New("boom")).Error(), "(boom)")
}

func TestFromValidation(t *testing.T) {
	type req struct {
		ListID string `json:"list_id" validate:"required"`
		Count  int    `json:"count" validate:"min=1"`
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.Split(f.Tag.Get("json"), ",")[0]
	})

	appErr := FromValidation(v.Struct(req{Count: 1}))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrCodeValidation, appErr.Code)
	assert.Equal(t, "validation failed for list_id: is required", appErr.Message)

	appErr = FromValidation(v.Struct(req{ListID: "l1"}))
	assert.Equal(t, "validation failed for count: must be at least 1", appErr.Message)

	assert.Equal(t, ErrCodeBadRequest, FromValidation(stderrors.New("unexpected EOF")).Code)
	assert.Nil(t, FromValidation(nil))
}
