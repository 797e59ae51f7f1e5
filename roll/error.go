package roll

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from these with [Error.Wrap]
// and [Error.With]; use [errors.Is] to classify them.
var (
	ErrMalformedKeyCode = NewError("malformed key code")
	ErrDuplicateKeyCode = NewError("duplicate key code")
	ErrKeyNotFound      = NewError("key not found")
	ErrInvalidQuery     = NewError("invalid query")
	ErrReadInput        = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind  *Error      // Sentinel this error was derived from
	msg   string      // Message of the sentinel
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError returns err as an *Error, wrapping it if necessary.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from the same sentinel as target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e.kind == nil {
		return false
	}

	return e.kind == t.kind
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error of the same kind wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// Wrapf is like [Error.Wrap] with a formatted cause.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   e.err,
		attrs: append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...),
	}
}

// SyntaxError describes why a marker does not match the key-code grammar.
type SyntaxError struct {
	Input  string // Marker text that failed to parse
	Reason string // What the parser expected
	Offset int    // Byte offset of the offending position in Input
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%q: %s at offset %d", e.Input, e.Reason, e.Offset)
}

// DuplicateError names a key found on more than one delimiter line.
type DuplicateError struct {
	Key    Key
	First  int // Line of the first occurrence
	Second int // Line of the rejected occurrence
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s at line %d (first seen at line %d)",
		e.Key, e.Second, e.First)
}

func queryAttr(src string) slog.Attr { return slog.String("query", src) }

func keyAttr(key Key) slog.Attr { return slog.String("key", key.String()) }

func lineAttr(name string, line int) slog.Attr { return slog.Int(name, line) }
