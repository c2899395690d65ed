// Package apierror defines errors that are safe to show to API clients.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Kind classifies an APIError.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
)

// APIError is an error with a client facing message.
type APIError struct {
	Kind    Kind
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to a response status code.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// As extracts an *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == kind
}

func NewValidation(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message}
}

func NewAuth(message string) *APIError {
	return &APIError{Kind: KindAuth, Message: message}
}

func NewForbidden(message string) *APIError {
	return &APIError{Kind: KindForbidden, Message: message}
}

func NewNotFound(message string) *APIError {
	return &APIError{Kind: KindNotFound, Message: message}
}

func NewInternal() *APIError {
	return &APIError{Kind: KindInternal, Message: "internal server error"}
}

func NewErrEmailIsTaken(email string) *APIError {
	return NewValidation(fmt.Sprintf("email %s is already taken", email))
}

func NewErrInvalidCredentials() *APIError {
	return NewAuth("invalid credentials")
}

func NewErrMissingAuthorizationToken() *APIError {
	return NewAuth("missing authorization token")
}

func NewErrInvalidAuthorizationToken() *APIError {
	return NewAuth("invalid or expired authorization token")
}

func NewErrPinNotFound(id uuid.UUID) *APIError {
	return NewNotFound(fmt.Sprintf("pin %s not found", id))
}

func NewErrNotPinOwner() *APIError {
	return NewForbidden("you can only modify your own pins")
}

func NewErrUserNotFound(id uuid.UUID) *APIError {
	return NewNotFound(fmt.Sprintf("user %s not found", id))
}
