package common

import "errors"

// ErrorKind classifies a failure of the pipeline
type ErrorKind string

const (
	KindFileNotFound   ErrorKind = "FILE_NOT_FOUND"
	KindIO             ErrorKind = "IO_ERROR"
	KindAuthentication ErrorKind = "AUTHENTICATION_ERROR"
	KindNetwork        ErrorKind = "NETWORK_ERROR"
	KindService        ErrorKind = "SERVICE_ERROR"
)

// Error is a classified error with an optional underlying cause
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a classified error
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// KindOf returns the kind of the first classified error in the chain, or "" if there is none
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
