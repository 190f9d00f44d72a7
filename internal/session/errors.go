package session

import (
	"errors"
	"fmt"
)

// Kind classifies session errors for callers such as the HTTP layer.
type Kind string

const (
	KindUnknownSession     Kind = "unknown_session"
	KindUnknownQuestion    Kind = "unknown_question"
	KindAlreadyAnswered    Kind = "already_answered"
	KindPhase              Kind = "phase_error"
	KindValidation         Kind = "validation_error"
	KindContentUnavailable Kind = "content_generator_unavailable"
)

// Error is a classified session error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnknownSession     = &Error{Kind: KindUnknownSession}
	ErrUnknownQuestion    = &Error{Kind: KindUnknownQuestion}
	ErrAlreadyAnswered    = &Error{Kind: KindAlreadyAnswered}
	ErrPhase              = &Error{Kind: KindPhase}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrContentUnavailable = &Error{Kind: KindContentUnavailable}
)

// KindOf returns the kind of err, or "" if err is not a session error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func phaseError(op string, have Phase, want ...Phase) *Error {
	return newError(KindPhase, op, fmt.Errorf("session is %s, need %v", have, want))
}
