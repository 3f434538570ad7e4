package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railzwaylabs/supportdesk/internal/authorization"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
)

// APIError is an error the handlers raise themselves, already carrying its
// HTTP status.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string { return e.Message }

var (
	ErrInvalidRequest = &APIError{Status: http.StatusBadRequest, Type: "invalid_request", Message: "invalid request"}
	ErrInternal       = &APIError{Status: http.StatusInternalServerError, Type: "internal_error", Message: "internal error"}
)

type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// AbortWithError writes the error envelope and records err on the context so
// the request logger sees it.
func AbortWithError(c *gin.Context, err error) {
	status, body := mapError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

func mapError(err error) (int, errorBody) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, errorBody{Type: apiErr.Type, Message: apiErr.Message}
	}

	field, _ := apperror.FieldOf(err)
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, errorBody{Type: "validation_error", Message: err.Error(), Field: field}
	case errors.Is(err, apperror.ErrInvalidInput):
		return http.StatusUnprocessableEntity, errorBody{Type: "invalid_input", Message: err.Error(), Field: field}
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, errorBody{Type: "not_found", Message: err.Error()}
	case errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorBody{Type: "forbidden", Message: "forbidden"}
	default:
		return http.StatusInternalServerError, errorBody{Type: ErrInternal.Type, Message: ErrInternal.Message}
	}
}
