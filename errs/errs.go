// Package errs defines the typed error kinds shared by the configuration
// evaluation packages. Errors carry structured logging attributes and a
// dotted key path locating the failure within the document.
package errs

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	// ErrLoad is returned when a configuration document cannot be read
	// or decoded.
	ErrLoad = New("failed to load configuration")

	// ErrParseText is returned when the expression service cannot
	// interpret a string as a valid expression.
	ErrParseText = New("expression could not be interpreted")

	// ErrUnresolvedName is returned when an expression references a name
	// that is not bound in the evaluation namespace. Forward references
	// to not-yet-evaluated siblings always fail with this error.
	ErrUnresolvedName = New("unresolved name in expression")

	// ErrSymbolResolution is returned when a library or symbol lookup
	// fails in the object materializer.
	ErrSymbolResolution = New("library or symbol not found")

	// ErrConstruction is returned when invoking a resolved callable with
	// the given arguments fails.
	ErrConstruction = New("object construction failed")

	// ErrMalformedSpec is returned when an extra-libraries entry or
	// object specification has the wrong shape.
	ErrMalformedSpec = New("malformed specification")
)

// Error represents an error with optional structured logging attributes.
// It implements error, errors.Is matching against its originating sentinel,
// and slog.LogValuer.
type Error struct {
	msg   string
	base  *Error      // Originating sentinel (for errors.Is)
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// New creates a new sentinel Error with a message.
func New(msg string) *Error {
	e := &Error{msg: msg}
	e.base = e

	return e
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

// Is reports whether target is the sentinel this error derives from.
// Derived errors produced by Wrap and With match their sentinel.
func (e *Error) Is(target error) bool {
	var te *Error
	if !errors.As(target, &te) {
		return false
	}

	return e == te || e.base == te.base
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
		base:  e.base,
		err:   err,
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
		base:  e.base,
		err:   e.err,
		attrs: newAttrs,
	}
}

// AtPath tags the error with the dotted key path at which it occurred.
// The first path applied wins; evaluation tags errors at the failure site.
func (e *Error) AtPath(path string) *Error {
	for _, attr := range e.attrs {
		if attr.Key == "path" {
			return e
		}
	}

	return e.With(slog.String("path", path))
}

// Path returns the dotted key path carried by the error, if any.
func (e *Error) Path() (string, bool) {
	for _, attr := range e.attrs {
		if attr.Key == "path" {
			return attr.Value.String(), true
		}
	}

	return "", false
}
