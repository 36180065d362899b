package service

import "net/http"

// Error is a client-visible failure with an HTTP status. Anything else that
// escapes a service is treated as a server error by the handlers.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newValidationError(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func newConflictError(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func newAuthError(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func newNotFoundError(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}
