package domain

import "fmt"

// ErrorKind 是稳定的机器可读错误类别
type ErrorKind string

const (
	ErrValidation        ErrorKind = "VALIDATION"
	ErrUnauthenticated   ErrorKind = "UNAUTHENTICATED"
	ErrForbidden         ErrorKind = "FORBIDDEN"
	ErrNotFound          ErrorKind = "NOT_FOUND"
	ErrConflict          ErrorKind = "CONFLICT"
	ErrInvalidTransition ErrorKind = "INVALID_TRANSITION"
	ErrDependency        ErrorKind = "DEPENDENCY"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
