package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies the failures the crawl can hit
type Kind string

const (
	KindNetwork    Kind = "network"
	KindProtocol   Kind = "protocol"
	KindDecode     Kind = "decode"
	KindOversize   Kind = "oversize"
	KindFilesystem Kind = "filesystem"
)

// Error carries a failure kind alongside the message. Protocol errors also
// carry the HTTP status code.
type Error struct {
	Kind    Kind
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewProtocol creates a protocol Error carrying the HTTP status code.
func NewProtocol(code int, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindProtocol,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

// IsKind reports whether err is (or wraps) an Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or zero if err is not a
// protocol error.
func StatusCode(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return 0
}
