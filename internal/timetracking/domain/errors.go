package domain

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure categories surfaced by the time tracking core.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindInvalidState
	KindNotOwned
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid state"
	case KindNotOwned:
		return "not owned"
	case KindStorage:
		return "storage failure"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. A target without a message
// matches every error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrNotOwned     = &Error{Kind: KindNotOwned}
	ErrStorage      = &Error{Kind: KindStorage}

	ErrAlreadyRunning  = &Error{Kind: KindConflict, Message: "Already running"}
	ErrNoRunningEntry  = &Error{Kind: KindInvalidState, Message: "No running entry"}
	ErrProjectNotOwned = &Error{Kind: KindNotOwned, Message: "Project not found or not yours"}
	ErrTagsNotOwned    = &Error{Kind: KindNotOwned, Message: "One or more tags not found or not yours"}
)

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

// Storage wraps an unexpected persistence error. Errors that already carry a
// Kind are returned unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStorage, Message: op, Err: err}
}

// KindOf returns the Kind carried by err, or KindStorage for foreign errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorage
}
