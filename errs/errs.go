/*
Package errs defines the error kinds shared by the canvas codecs.

Every error returned by the codec packages is an *Error carrying a Kind so
callers can tell malformed input apart from bad arguments or filesystem
failures:

	if errors.Is(err, errs.ErrFormat) {
		// the file is not a supported bitmap
	}
*/
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind uint8

const (
	// Other is an unclassified error.
	Other Kind = iota
	// Format is malformed or unsupported binary input.
	Format
	// Config is an invalid caller supplied argument.
	Config
	// IO is a filesystem failure.
	IO
	// Index is an out of range pixel coordinate.
	Index
)

func (k Kind) String() string {
	switch k {
	case Format:
		return "format error"
	case Config:
		return "config error"
	case IO:
		return "I/O error"
	case Index:
		return "index error"
	default:
		return "error"
	}
}

// Error is the error type returned by the codec packages.
type Error struct {
	Kind Kind
	Op   string // package or operation, e.g. "bitmap"
	Err  error
}

// Kind sentinels for use with errors.Is.
var (
	ErrFormat = &Error{Kind: Format}
	ErrConfig = &Error{Kind: Config}
	ErrIO     = &Error{Kind: IO}
	ErrIndex  = &Error{Kind: Index}
)

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a kind sentinel matching e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// E returns a new *Error. A nil err yields nil.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf formats a message into a new *Error.
func Errorf(kind Kind, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}
