package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := StatusError("https://example.test/astronauts", 503)
	assert.Equal(t, "status error (code 503): unexpected status code: 503", err.Error())
	assert.Equal(t, "https://example.test/astronauts", err.URL)

	plain := New(ErrorTypeFilter, "unknown filter \"color\"")
	assert.Equal(t, "filter error: unknown filter \"color\"", plain.Error())
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrorTypeNetwork, cause, "request failed")

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		wantFetch bool
	}{
		{"network", New(ErrorTypeNetwork, "x"), ErrorTypeNetwork, true},
		{"status", StatusError("u", 404), ErrorTypeStatus, true},
		{"parsing", New(ErrorTypeParsing, "x"), ErrorTypeParsing, true},
		{"image", New(ErrorTypeImage, "x"), ErrorTypeImage, false},
		{"wrapped status", fmt.Errorf("fetch astronauts: %w", StatusError("u", 500)), ErrorTypeStatus, true},
		{"foreign", stderrors.New("boom"), ErrorTypeUnknown, false},
		{"nil", nil, ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, TypeOf(tt.err))
			assert.Equal(t, tt.wantFetch, IsFetchError(tt.err))
		})
	}

	assert.True(t, IsFilterError(New(ErrorTypeFilter, "bad")))
	assert.False(t, IsFilterError(New(ErrorTypeImage, "bad")))
}
