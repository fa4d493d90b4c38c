package errors

import (
	stderrors "errors"
	"fmt"
)

// Pipeline stage errors. Every stage failure in the transcription pipeline
// wraps exactly one of these sentinels so callers can classify the outcome
// without inspecting message strings.
var (
	// ErrStorageWrite indicates the scratch file could not be written to local disk.
	ErrStorageWrite = New("scratch write failed")

	// ErrConversion indicates the external audio conversion process failed.
	ErrConversion = New("audio conversion failed")

	// ErrUpload indicates the durable audio upload to blob storage failed.
	ErrUpload = New("audio upload failed")

	// ErrTranscription indicates the transcription provider failed after all retry attempts.
	ErrTranscription = New("transcription failed")

	// ErrPersistence indicates the transcript record could not be saved.
	ErrPersistence = New("transcript persistence failed")

	// ErrConfiguration indicates invalid or missing startup configuration.
	// This is the only fatal error class; it terminates the process at startup.
	ErrConfiguration = New("invalid configuration")
)

// Error represents a standardized error with an optional cause chain.
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Stage wraps err under the given stage sentinel, keeping the original error
// reachable through the Unwrap chain.
func Stage(sentinel *Error, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: sentinel.message,
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// StageName returns the metric/log label for the stage sentinel found in
// err's chain, or "unknown" if no pipeline sentinel matches.
func StageName(err error) string {
	switch {
	case Is(err, ErrStorageWrite):
		return "scratch_write"
	case Is(err, ErrConversion):
		return "conversion"
	case Is(err, ErrUpload):
		return "upload"
	case Is(err, ErrTranscription):
		return "transcription"
	case Is(err, ErrPersistence):
		return "persistence"
	default:
		return "unknown"
	}
}
