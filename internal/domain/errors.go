package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline errors.
type ErrorKind string

const (
	// KindValidation marks malformed input: empty buffer or a failed file
	// signature check. Fatal for the call.
	KindValidation ErrorKind = "validation"
	// KindParse marks a total parser-adapter failure: no backend could
	// produce any usable data. Fatal only when nothing was extracted.
	KindParse ErrorKind = "parse"
	// KindExtraction marks per-page extraction failures. Recovered locally.
	KindExtraction ErrorKind = "extraction"
	// KindAPI marks vision OCR call failures, including backends without
	// vision support. Recovered locally.
	KindAPI ErrorKind = "api"
	// KindConfig marks configuration errors.
	KindConfig ErrorKind = "config"
	// KindIO marks filesystem and encoding failures.
	KindIO ErrorKind = "io"
	// KindStorage marks chunk-repository failures.
	KindStorage ErrorKind = "storage"
)

// Error is a pipeline error with a kind and optional cause.
type Error struct {
	Kind    ErrorKind
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

// NewError creates an error of the given kind.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func ValidationError(message string, err error) *Error {
	return NewError(KindValidation, message, err)
}

func ParseError(message string, err error) *Error {
	return NewError(KindParse, message, err)
}

func ExtractionError(message string, err error) *Error {
	return NewError(KindExtraction, message, err)
}

func APIError(message string, err error) *Error {
	return NewError(KindAPI, message, err)
}

func ConfigError(message string, err error) *Error {
	return NewError(KindConfig, message, err)
}

func IOError(message string, err error) *Error {
	return NewError(KindIO, message, err)
}

func StorageError(message string, err error) *Error {
	return NewError(KindStorage, message, err)
}

// IsKind reports whether err (or anything it wraps) is a pipeline error of
// the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}
