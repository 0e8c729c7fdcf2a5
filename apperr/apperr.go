// Package apperr defines the error taxonomy shared by the store, the order
// lifecycle and the HTTP layer. Handlers translate these into status codes;
// everything else just wraps and returns them.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError means the input was malformed or violated a domain rule
// (empty cart, zero quantity, item from another vendor, ...).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidStateError means a requested status transition is not in the legal
// table, or the order is already terminal.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

func InvalidStatef(format string, args ...interface{}) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError means the caller lost a race (second driver accepting an
// already-bound order) or violated a uniqueness invariant (second profile
// for the same user).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflictf(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// UnauthorizedError means the caller lacks the capability for the action.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string { return e.Msg }

func Unauthorizedf(format string, args ...interface{}) error {
	return &UnauthorizedError{Msg: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps an error to the status code the access layer should return.
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		invalidState *InvalidStateError
		conflict     *ConflictError
		unauthorized *UnauthorizedError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalidState):
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unauthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
