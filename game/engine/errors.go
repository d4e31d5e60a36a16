package engine

import "fmt"

// Kind classifies engine failures
type Kind string

const (
	KindValidation  Kind = "ValidationError"
	KindIllegalMove Kind = "IllegalMoveError"
	KindActionLimit Kind = "ActionLimitExceededError"
	// KindBadCall is reported by call surfaces for unknown operations or arguments.
	KindBadCall Kind = "BadCallError"
)

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrIllegalMove = &Error{Kind: KindIllegalMove}
	ErrActionLimit = &Error{Kind: KindActionLimit}
	ErrBadCall     = &Error{Kind: KindBadCall}
)

// Error is the single failure type raised by the engine
type Error struct {
	Kind Kind   `json:"kind"`
	Op   string `json:"op,omitempty"`
	Msg  string `json:"message"`
	// Index is the offending wall or painted cell, -1 when not applicable.
	Index int `json:"index"`
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is matches errors of the same Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func validationError(index int, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: "environment: " + fmt.Sprintf(format, args...), Index: index}
}

// BadCall builds a KindBadCall error for the named operation
func BadCall(op, format string, args ...any) *Error {
	return &Error{Kind: KindBadCall, Op: op, Msg: fmt.Sprintf(format, args...), Index: -1}
}
