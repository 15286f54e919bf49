// Package server provides the HTTP REST API for resume analysis and matching.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/ingestion"
	"github.com/jonathan/jobmatch/internal/matching"
	"github.com/jonathan/jobmatch/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a capability the request needs is not configured
type ErrUnavailable struct {
	Capability string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s capability is unavailable", e.Capability)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		unavailable *ErrUnavailable
		unsupported *ingestion.UnsupportedFormatError
		decode      *ingestion.DecodeError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &unsupported), errors.As(err, &decode),
		errors.Is(err, types.ErrNoInput):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, matching.ErrNoEmbedding):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts a Validate() failure into an ErrValidation.
func validationError(err error) *ErrValidation {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		// Report the first failing field
		fe := fieldErrors[0]
		return &ErrValidation{Field: fe.Field(), Message: fe.Tag()}
	}
	return &ErrValidation{Message: err.Error()}
}
