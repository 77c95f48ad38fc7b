package slidecast

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline errors so callers can choose how to surface them.
type Kind string

const (
	// KindSynthesis covers summarizer failures: unreachable, unauthorized,
	// or a malformed response. Prior deck state must be left untouched.
	KindSynthesis Kind = "synthesis"
	// KindRender covers encoder or frame drawing failures during export.
	KindRender Kind = "render"
	// KindAbort marks user-initiated cancellation. Never a failure.
	KindAbort Kind = "abort"
	// KindSaveBridge covers rejected destinations or chunk writes.
	KindSaveBridge Kind = "savebridge"
	// KindConfig covers invalid or missing configuration.
	KindConfig Kind = "config"
	// KindIO covers document and file access failures.
	KindIO Kind = "io"
)

// Error is a classified error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// SynthesisError wraps a summarizer failure.
func SynthesisError(message string, err error) *Error {
	return NewError(KindSynthesis, message, err)
}

// RenderError wraps an encoder or frame drawing failure.
func RenderError(message string, err error) *Error {
	return NewError(KindRender, message, err)
}

// AbortError marks a user-initiated cancellation.
func AbortError(message string, err error) *Error {
	return NewError(KindAbort, message, err)
}

// SaveBridgeError wraps a save transport failure.
func SaveBridgeError(message string, err error) *Error {
	return NewError(KindSaveBridge, message, err)
}

// ConfigError wraps a configuration failure.
func ConfigError(message string, err error) *Error {
	return NewError(KindConfig, message, err)
}

// IOError wraps a document or file access failure.
func IOError(message string, err error) *Error {
	return NewError(KindIO, message, err)
}

// IsAbort reports whether err is (or wraps) a cancellation.
func IsAbort(err error) bool {
	return IsKind(err, KindAbort)
}

// IsKind reports whether err is (or wraps) an Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Kind == kind {
			return true
		}
		if e.Err == nil {
			break
		}
		err = e.Err
	}
	return false
}
