// Package errs defines the typed error taxonomy shared by every BTOON
// component that can fail on malformed or adversarial input.
//
// A plain fmt.Errorf string is enough for a library that only ever sees
// data it produced itself. BTOON's decode path does not have that luxury:
// callers need to distinguish "the buffer was truncated" from "the depth
// limit was hit" programmatically, not by parsing a message. The decode
// paths in wire, ext, tabular and the compress frame return an *Error so
// callers can branch on Kind with errors.As. Schema parsing and migration
// errors are plain errors, and the LZ4 and S2 codecs return their
// libraries' errors unwrapped.
package errs

import "fmt"

// Kind identifies the category of a BTOON error.
type Kind uint8

const (
	// TruncatedInput means a read would have advanced past the end of the buffer.
	TruncatedInput Kind = iota + 1
	// InvalidMarker means a decoded marker byte is undefined (e.g. 0xC1).
	InvalidMarker
	// InvalidUTF8 means a string body failed UTF-8 validation in strict mode.
	InvalidUTF8
	// DepthExceeded means recursive decoding hit the configured depth cap.
	DepthExceeded
	// SizeExceeded means a length prefix exceeded the configured cap for its type.
	SizeExceeded
	// InvalidFrame means a compression frame header failed validation.
	InvalidFrame
	// UnsupportedAlgorithm means a compression algorithm ID is not compiled in.
	UnsupportedAlgorithm
	// SizeMismatch means decompressed size disagreed with the frame header.
	SizeMismatch
	// DuplicateKey means a Map contained two entries with the same key (strict mode).
	DuplicateKey
	// InvalidExtensionLength means a reserved extension body had the wrong size.
	InvalidExtensionLength
	// SchemaViolation means the validator found at least one error.
	SchemaViolation
)

func (k Kind) String() string {
	switch k {
	case TruncatedInput:
		return "TruncatedInput"
	case InvalidMarker:
		return "InvalidMarker"
	case InvalidUTF8:
		return "InvalidUTF8"
	case DepthExceeded:
		return "DepthExceeded"
	case SizeExceeded:
		return "SizeExceeded"
	case InvalidFrame:
		return "InvalidFrame"
	case UnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case SizeMismatch:
		return "SizeMismatch"
	case DuplicateKey:
		return "DuplicateKey"
	case InvalidExtensionLength:
		return "InvalidExtensionLength"
	case SchemaViolation:
		return "SchemaViolation"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by BTOON's fallible operations.
//
// Offset carries the byte offset into the input buffer where a decode error
// was detected (-1 if not applicable). Path carries the field path where a
// validation error was detected (empty if not applicable).
type Error struct {
	Kind   Kind
	Msg    string
	Offset int64
	Path   string
	Err    error // wrapped cause, if any
}

func (e *Error) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("btoon: %s: %s (field %q)", e.Kind, e.Msg, e.Path)
	case e.Offset >= 0:
		return fmt.Sprintf("btoon: %s: %s (offset %d)", e.Kind, e.Msg, e.Offset)
	default:
		return fmt.Sprintf("btoon: %s: %s", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with no offset or path attached.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Offset: -1}
}

// Newf creates an Error from a format string, with no offset or path attached.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Offset: -1}
}

// AtOffset creates an Error carrying a decode-time byte offset.
func AtOffset(kind Kind, offset int64, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Offset: offset}
}

// AtOffsetf creates an Error carrying a decode-time byte offset, with a formatted message.
func AtOffsetf(kind Kind, offset int64, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Offset: offset}
}

// AtPath creates an Error carrying a validation field path.
func AtPath(kind Kind, path string, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Path: path, Offset: -1}
}

// AtPathf creates an Error carrying a validation field path, with a formatted message.
func AtPathf(kind Kind, path string, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Path: path, Offset: -1}
}

// Wrap attaches a cause to an existing Error, keeping Kind typed instead
// of collapsing to a plain wrapped error.
func (e *Error) Wrap(cause error) *Error {
	e.Err = cause
	return e
}

// Is reports whether target is an *Error with the same Kind, letting callers
// write errors.Is(err, errs.New(errs.TruncatedInput, "")) style checks, but
// the idiomatic path is errors.As plus a Kind comparison — IsKind below.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// IsKind reports whether err is a *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !asError(err, &e) {
		return false
	}
	return e.Kind == kind
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
