package utils

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docket-dev/docket/internal/shared/errors"
)

type sampleRequest struct {
	Title    string   `json:"title" binding:"required,max=10"`
	Priority string   `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	Tags     []string `json:"tags" binding:"omitempty,dive,max=3"`
}

func bindSample(t *testing.T, body string) error {
	t.Helper()
	var req sampleRequest
	return binding.JSON.BindBody([]byte(body), &req)
}

func TestBindingError_UsesJSONFieldNames(t *testing.T) {
	err := BindingError(bindSample(t, `{"priority":"urgent"}`))
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Details, "title is required")
	assert.Contains(t, appErr.Details, "priority must be one of [low medium high critical]")
}

func TestBindingError_MalformedJSON(t *testing.T) {
	bindErr := bindSample(t, `{"title":`)
	require.Error(t, bindErr)

	err := BindingError(bindErr)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "invalid request body", appErr.Message)
}

func TestBindingError_MaxLength(t *testing.T) {
	err := BindingError(bindSample(t, `{"title":"`+strings.Repeat("x", 11)+`"}`))
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Details, "title must be at most 10 characters long")
}

func TestBindingError_Valid(t *testing.T) {
	assert.NoError(t, bindSample(t, `{"title":"crash","priority":"high","tags":["ui"]}`))
}
