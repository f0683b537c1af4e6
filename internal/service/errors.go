package service

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/nurpe/freight-desk/internal/backend"
	"github.com/nurpe/freight-desk/internal/form"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrUpstream         = errors.New("backend unavailable")
)

// ValidationError carries the per-field messages of a rejected form.
type ValidationError struct {
	Schema string
	Fields form.Errors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s has invalid fields: %s", ErrInvalidInput, e.Schema, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// backendError maps a failed backend call onto the service sentinels.
func backendError(err error) error {
	var statusErr *backend.StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	switch statusErr.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, statusErr.Message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, statusErr.Message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrInvalidInput, statusErr.Message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, statusErr.Message)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
