package pubsite

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidConfiguration Code = "INVALID_CONFIGURATION"
	CodeMalformedRecord      Code = "MALFORMED_RECORD"
	CodeNotFound             Code = "NOT_FOUND"
)

// Error is a coded pubsite error. Two errors match under errors.Is when
// their codes are equal, so callers compare against the sentinels below.
type Error struct {
	Code    Code
	Message string
	Details map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetails returns a copy of e carrying per-field details.
func (e *Error) WithDetails(details map[string]string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinel errors for use with errors.Is.
var (
	ErrInvalidConfiguration = &Error{Code: CodeInvalidConfiguration, Message: "invalid configuration"}
	ErrMalformedRecord      = &Error{Code: CodeMalformedRecord, Message: "malformed record"}
	ErrNotFound             = &Error{Code: CodeNotFound, Message: "not found"}
)

// InvalidConfiguration returns an ErrInvalidConfiguration with a specific message.
func InvalidConfiguration(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidConfiguration, Message: "invalid configuration: " + fmt.Sprintf(format, args...)}
}

// Diagnostic reports a record that was left out of the public listing for a
// reason other than being an intentional draft.
type Diagnostic struct {
	RecordID string
	Source   string
	Path     string
	Reason   string
}

func (d Diagnostic) String() string {
	src := d.Source
	if src == "" {
		src = d.RecordID
	}
	return src + ": " + d.Reason
}

// Err converts the diagnostic into an ErrMalformedRecord.
func (d Diagnostic) Err() error {
	return &Error{Code: CodeMalformedRecord, Message: "malformed record " + d.String()}
}
