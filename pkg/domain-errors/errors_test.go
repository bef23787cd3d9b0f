package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(CodeNotFound, "account not found")
	assert.Equal(t, "not_found: account not found", plain.Error())

	wrapped := Wrap(errors.New("pq: boom"), CodeInternal, "failed to load account")
	assert.Equal(t, "internal_error: failed to load account: pq: boom", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestHasCode(t *testing.T) {
	err := New(CodeConflict, "duplicate")
	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeNotFound))

	// Codes survive fmt wrapping and nested domain errors.
	deep := fmt.Errorf("outer: %w", Wrap(New(CodeConflict, "inner"), CodeInternal, "outer"))
	assert.True(t, HasCode(deep, CodeInternal))
	assert.True(t, HasCode(deep, CodeConflict))
	assert.False(t, HasCode(deep, CodeForbidden))

	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestCodeOfAndMessageOf(t *testing.T) {
	err := New(CodeForbidden, "max attempts exceeded")
	assert.Equal(t, CodeForbidden, CodeOf(err))
	assert.Equal(t, "max attempts exceeded", MessageOf(err))

	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Empty(t, MessageOf(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeInvariantViolation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.code), tt.code)
	}
}
