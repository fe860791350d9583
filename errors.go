package bsa

import (
	"errors"
	"fmt"
)

// Kind identifies which branch of the error taxonomy an *Error belongs to,
// a flat sum type in place of an exception-inheritance tree.
type Kind int

const (
	// KindInputFailure covers I/O errors, truncated files, and failed opens.
	KindInputFailure Kind = iota
	// KindVersionFailure covers a recognized magic but an unsupported version.
	KindVersionFailure
	// KindEmptyFile covers a stream that opened but contains zero bytes.
	KindEmptyFile
	// KindHashNonASCII covers a path containing a byte with the high bit set.
	KindHashNonASCII
	// KindHashEmpty covers a normalized path that reduces to the empty string.
	KindHashEmpty
	// KindSizeFailure covers a value that must fit a 32-bit signed field but doesn't.
	KindSizeFailure
	// KindOutputFailure covers a sink write failure or a missing extraction target.
	KindOutputFailure
)

func (k Kind) String() string {
	switch k {
	case KindInputFailure:
		return "input failure"
	case KindVersionFailure:
		return "version failure"
	case KindEmptyFile:
		return "empty file"
	case KindHashNonASCII:
		return "non-ascii path"
	case KindHashEmpty:
		return "empty path"
	case KindSizeFailure:
		return "size failure"
	case KindOutputFailure:
		return "output failure"
	default:
		return "unknown"
	}
}

// Error is the single result-carrying error type for the package. Every
// failure raised by a decoder, hasher, or writer is an *Error so callers can
// switch on Kind or use errors.Is against the package-level sentinels below.
type Error struct {
	Kind Kind
	// Msg is a short, human-readable description; never includes dialect
	// jargon the caller wouldn't recognize.
	Msg string
	// Err, if non-nil, is the underlying cause (e.g. an os.PathError).
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bsa: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("bsa: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind, so that
// errors.Is(err, bsa.ErrHashNonASCII) works regardless of Msg/Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Sentinel errors, one per Kind, for errors.Is comparisons. Callers never
// need to know the Msg/Err of these; they exist purely as Kind markers.
var (
	ErrInputFailure   = &Error{Kind: KindInputFailure, Msg: "input failure"}
	ErrVersionFailure = &Error{Kind: KindVersionFailure, Msg: "version failure"}
	ErrEmptyFile      = &Error{Kind: KindEmptyFile, Msg: "empty file"}
	ErrHashNonASCII   = &Error{Kind: KindHashNonASCII, Msg: "non-ascii path"}
	ErrHashEmpty      = &Error{Kind: KindHashEmpty, Msg: "empty path"}
	ErrSizeFailure    = &Error{Kind: KindSizeFailure, Msg: "size failure"}
	ErrOutputFailure  = &Error{Kind: KindOutputFailure, Msg: "output failure"}
)

// IsKind is a convenience wrapper around errors.As + Kind comparison.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
