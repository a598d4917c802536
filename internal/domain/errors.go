package domain

import "fmt"

// ErrorKind classifies failures surfaced to callers of the engine.
type ErrorKind string

const (
	KindEmptyInput       ErrorKind = "empty-text"
	KindNoChunksProduced ErrorKind = "no-chunks"
	KindNotFound         ErrorKind = "not-found"
	KindMissingQuery     ErrorKind = "missing-query"
)

// Error is a recoverable, user-visible failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrEmptyInput       = &Error{Kind: KindEmptyInput, Message: "no extractable text"}
	ErrNoChunksProduced = &Error{Kind: KindNoChunksProduced, Message: "no extractable content"}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "document not found"}
	ErrMissingQuery     = &Error{Kind: KindMissingQuery, Message: "query is required"}
)

// Errorf builds an *Error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
