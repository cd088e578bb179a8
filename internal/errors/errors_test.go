package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", ErrProductNotFound, http.StatusNotFound, MsgProductNotFound},
		{"wrapped not found", fmt.Errorf("find: %w", ErrProductNotFound), http.StatusNotFound, MsgProductNotFound},
		{"bad id", ErrInvalidProductID, http.StatusBadRequest, MsgInvalidID},
		{"no file", ErrNoFile, http.StatusBadRequest, "No file provided."},
		{"token", ErrInvalidToken, http.StatusUnauthorized, "Unauthorized"},
		{"upstream", errors.New("dial tcp 10.0.0.3:3306: connection refused"), http.StatusInternalServerError, MsgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}
}

func TestMapErrorToHTTP_Validation(t *testing.T) {
	fields := map[string][]string{"title": {"Title must be at least 3 characters"}}
	err := fmt.Errorf("create: %w", NewValidationError("Failed to create product.", fields))

	httpErr := MapErrorToHTTP(err)

	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.False(t, httpErr.IsInternal())
	assert.Equal(t, ErrorResponse{Message: "Failed to create product.", Errors: fields}, httpErr.ToErrorResponse())
}
