package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error returned by this package wraps exactly one of these, so callers
// can classify failures with [errors.Is].
var (
	ErrLex              = NewError("lexical error")
	ErrSyntax           = NewError("syntax error")
	ErrMaxDepthExceeded = NewError("maximum nesting depth exceeded")
	ErrName             = NewError("undefined name")
	ErrRedeclaration    = NewError("name already declared")
	ErrAssignment       = NewError("invalid assignment target")
	ErrArity            = NewError("argument count mismatch")
	ErrMissingImport    = NewError("type not imported")
	ErrAmbiguousType    = NewError("ambiguous type name")
	ErrMethodResolution = NewError("no matching member")
	ErrType             = NewError("unsupported operand type")
	ErrIndex            = NewError("invalid index")
	ErrDivideByZero     = NewError("integer division by zero")
	ErrInvalidNumber    = NewError("invalid number literal")
	ErrInternal         = NewError("internal error")
	ErrCallDepth        = NewError("maximum call depth exceeded")
	ErrCanceled         = NewError("evaluation canceled")
	ErrHost             = NewError("host call failed")
	ErrReadInput        = NewError("failed to read input")
	ErrArgument         = NewError("invalid argument expression")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	base  *Error      // Sentinel this error was derived from (for errors.Is)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2+len(e.attrs))

	if e.msg != "" {
		part = append(part, e.msg)
	}

	for _, a := range e.attrs {
		part = append(part, a.Key+"="+a.Value.String())
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.base != nil && e.base == t)
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

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		base:  e.sentinel(),
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		base:  e.sentinel(),
		attrs: newAttrs,
	}
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

func (e *Error) sentinel() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// at returns e annotated with the source span of tok.
func (e *Error) at(tok Token) *Error {
	text := tok.Value

	switch tok.Type {
	case TokenCurly, TokenSquare, TokenParens:
		text = tok.Type.String()
	}

	return e.With(
		slog.String("token", text),
		slog.Int("offset", tok.Span.Start),
	)
}
