package document

import (
	"errors"
	"fmt"
)

// ErrorKind classifies extraction failures. The HTTP layer maps each kind
// to a status code.
type ErrorKind string

const (
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindFileTooLarge      ErrorKind = "file_too_large"
	KindCorruptDocument   ErrorKind = "corrupt_document"
	KindEncryptedDocument ErrorKind = "encrypted_document"
	KindEncodingError     ErrorKind = "encoding_error"
	KindIOFailure         ErrorKind = "io_failure"
)

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrFileTooLarge      = &Error{Kind: KindFileTooLarge}
	ErrCorruptDocument   = &Error{Kind: KindCorruptDocument}
	ErrEncryptedDocument = &Error{Kind: KindEncryptedDocument}
	ErrEncodingError     = &Error{Kind: KindEncodingError}
	ErrIOFailure         = &Error{Kind: KindIOFailure}
)

// Error is the structured failure returned by the extraction pipeline.
type Error struct {
	Kind    ErrorKind
	Format  Format
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Format != "" {
		msg = fmt.Sprintf("%s: %s", e.Format, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can compare against the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewFileTooLargeError reports an upload above the configured cap.
func NewFileTooLargeError(size, limit int64) *Error {
	return &Error{
		Kind:    KindFileTooLarge,
		Message: fmt.Sprintf("file too large: %d bytes (max %d)", size, limit),
	}
}

// KindOf returns the ErrorKind carried by err, or "" when err is not an
// extraction error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Detail returns the human-readable message of an extraction error
// without wrapped library internals.
func Detail(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}
