package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"taskdeck/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorString(t *testing.T) {
	err := errors.NewNotFoundError("project")
	assert.Equal(t, "NOT_FOUND: project not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)

	wrapped := errors.WrapError(fmt.Errorf("boom"), errors.ErrCodeInternal, "store failed", http.StatusInternalServerError)
	assert.Contains(t, wrapped.Error(), "caused by: boom")
	assert.Equal(t, "boom", wrapped.Unwrap().Error())
}

func TestGetAppError_UnwrapsChain(t *testing.T) {
	app := errors.NewForbiddenError("not a member")
	wrapped := fmt.Errorf("handler: %w", app)

	got := errors.GetAppError(wrapped)
	assert.NotNil(t, got)
	assert.Equal(t, errors.ErrCodeForbidden, got.Code)
	assert.Equal(t, http.StatusForbidden, got.HTTPStatus)

	assert.Nil(t, errors.GetAppError(fmt.Errorf("plain")))
	assert.Nil(t, errors.GetAppError(nil))
}

func TestWithContext(t *testing.T) {
	err := errors.NewInvalidInputError("projectId is required").WithContext("route", "/api/v1/boards")
	assert.Equal(t, "/api/v1/boards", err.Context["route"])
	assert.NotNil(t, errors.GetAppError(err))
}
