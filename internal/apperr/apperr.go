// Package apperr defines the error taxonomy shared by services and handlers.
// Every error that crosses the HTTP boundary carries a Kind that maps to a
// status class; the message is always safe to show to the user.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	// Validation is a user-correctable input problem.
	Validation Kind = iota
	// Auth covers missing sessions and wrong-owner access. Served as 404 so
	// existence is never leaked; the session layer handles 401s itself.
	Auth
	// NotConfigured means a required external setting is absent.
	NotConfigured
	// Upstream is a webhook failure: unreachable, non-success, or bad body.
	Upstream
	// Persistence is a store write failure, surfaced verbatim.
	Persistence
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// HTTPStatus maps an error to its response status. Unknown errors are treated
// as persistence-class failures.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return fiber.StatusInternalServerError
	}
	switch e.Kind {
	case Validation:
		return fiber.StatusBadRequest
	case Auth:
		return fiber.StatusNotFound
	case NotConfigured:
		return fiber.StatusServiceUnavailable
	case Upstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// UserMessage returns the user-facing message, or a generic one for errors
// outside the taxonomy.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
