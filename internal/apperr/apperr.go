// Package apperr classifies domain failures so the HTTP layer can map them
// to status codes without knowing every sentinel.
package apperr

import "errors"

type Kind int

const (
	Internal Kind = iota
	Validation
	Unauthenticated
	Authorization
	NotFound
	Conflict
	State
	Gateway
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthenticated:
		return "unauthenticated"
	case Authorization:
		return "authorization"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case State:
		return "state"
	case Gateway:
		return "gateway"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind to err. The message is what clients see; err is kept for logs.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the outermost *Error in the chain, Internal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the client-facing message of err, or "" for unclassified errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return ""
}

var (
	ErrForbidden = New(Authorization, "you do not have permission to perform this action")
	ErrNotFound  = New(NotFound, "not found")
)
