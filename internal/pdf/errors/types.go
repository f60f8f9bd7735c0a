package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind categorizes the failures the pdftools commands report so callers
// can map them to exit codes without parsing messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingInput
	KindOutputExists
	KindInvalidRange
	KindUnsupportedFile
	KindExternalToolFailure
)

// String returns the stable name of the Kind.
func (k Kind) String() string {
	switch k {
	case KindMissingInput:
		return "MISSING_INPUT"
	case KindOutputExists:
		return "OUTPUT_EXISTS"
	case KindInvalidRange:
		return "INVALID_RANGE"
	case KindUnsupportedFile:
		return "UNSUPPORTED_FILE"
	case KindExternalToolFailure:
		return "EXTERNAL_TOOL_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Error is a classified tool failure with optional path context and cause.
type Error struct {
	Kind    Kind
	Message string
	Path    string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates an Error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// WithPath attaches the offending path to an existing Error.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// NewMissingInput reports a source path that does not exist.
func NewMissingInput(path string) *Error {
	return &Error{
		Kind:    KindMissingInput,
		Message: "input path does not exist",
		Path:    path,
	}
}

// NewOutputExists reports a destination that is already present and would
// be clobbered without the overwrite flag.
func NewOutputExists(path string) *Error {
	return &Error{
		Kind:    KindOutputExists,
		Message: "output file already exists",
		Path:    path,
	}
}

// NewInvalidRange reports a malformed or out-of-bounds page range token.
func NewInvalidRange(token, reason string) *Error {
	return &Error{
		Kind:    KindInvalidRange,
		Message: fmt.Sprintf("invalid page range %q: %s", token, reason),
	}
}

// NewUnsupportedFile reports a file whose extension is not recognized.
func NewUnsupportedFile(path string) *Error {
	return &Error{
		Kind:    KindUnsupportedFile,
		Message: "unsupported file type",
		Path:    path,
	}
}

// KindOf extracts the Kind from err, walking wrapped causes. Errors that
// did not originate from this package report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
