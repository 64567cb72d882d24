// Package rterrors contains the error taxonomy shared by every layer of the
// reasoning engine. Rather than a single stringly-typed error, each failure
// mode the statement grammar or the tree can produce gets its own type with
// structured accessors, so callers can use errors.As instead of parsing
// Error() strings back apart.
package rterrors

import "fmt"

// InvalidCharError is returned when the statement scanner encounters a
// character that cannot legally appear at the position it was found: a
// member of the invalid set, or a separator at the start/end of the
// statement or immediately following another separator.
type InvalidCharError struct {
	Char rune
	Pos  int
}

func (e *InvalidCharError) Error() string {
	return fmt.Sprintf("invalid char %q at position %d", e.Char, e.Pos)
}

// Invalid returns a new InvalidCharError for the given character and
// 0-indexed byte position.
func Invalid(ch rune, pos int) error {
	return &InvalidCharError{Char: ch, Pos: pos}
}

// CustomError covers every structural failure that isn't a lex-level
// InvalidCharError: edge-kind upgrade conflicts, numeric parse failures,
// unexpected token sequences, attempts to insert an Identifier symbol as a
// ground fact, binding-overlay misuse, and iteration-cap overruns.
type CustomError struct {
	Msg   string
	Cause error
}

func (e *CustomError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Cause.Error())
	}
	return e.Msg
}

// Unwrap returns the wrapped cause, if any, so errors.Is/errors.As can see
// through a CustomError to whatever produced it.
func (e *CustomError) Unwrap() error {
	return e.Cause
}

// Custom returns a new CustomError with the given message.
func Custom(msg string) error {
	return &CustomError{Msg: msg}
}

// Customf returns a new CustomError with a formatted message.
func Customf(format string, args ...interface{}) error {
	return &CustomError{Msg: fmt.Sprintf(format, args...)}
}

// WrapCustom returns a new CustomError with the given message that wraps
// cause. errors.Unwrap(result) == cause.
func WrapCustom(cause error, msg string) error {
	return &CustomError{Msg: msg, Cause: cause}
}

// WrapCustomf is WrapCustom with a formatted message.
func WrapCustomf(cause error, format string, args ...interface{}) error {
	return &CustomError{Msg: fmt.Sprintf(format, args...), Cause: cause}
}
