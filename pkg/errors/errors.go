// Package errors defines the error categories shared by the converter and
// the tokenizer tools, and maps them to process exit codes.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput      = errors.New("malformed input")
	ErrMissingKey          = errors.New("missing key")
	ErrResourceUnavailable = errors.New("resource unavailable")
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")
	ErrSinkFailed          = errors.New("sink failed")
	ErrInvalidConfig       = errors.New("invalid config")
)

// Exit codes returned by the command-line tools.
const (
	ExitOK          = 0
	ExitInternal    = 1
	ExitBadInput    = 2
	ExitResource    = 3
	ExitDependency  = 4
	ExitConfigError = 5
)

// AppError attaches a message and, for line-oriented input, the 1-based line
// number to a sentinel error.
type AppError struct {
	Err     error
	Message string
	Line    int
}

func (e *AppError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Err.Error(), e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// AtLine is Newf with a line number.
func AtLine(sentinel error, line int, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	}
}

// LineOf returns the input line an error refers to, or 0.
func LineOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Line
	}
	return 0
}

func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrMalformedInput), errors.Is(err, ErrMissingKey):
		return ExitBadInput
	case errors.Is(err, ErrResourceUnavailable):
		return ExitResource
	case errors.Is(err, ErrAnalyzerUnavailable), errors.Is(err, ErrSinkFailed):
		return ExitDependency
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	default:
		return ExitInternal
	}
}

// Kind is a short label for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrMissingKey):
		return "missing_key"
	case errors.Is(err, ErrResourceUnavailable):
		return "resource_unavailable"
	case errors.Is(err, ErrAnalyzerUnavailable):
		return "analyzer_unavailable"
	case errors.Is(err, ErrSinkFailed):
		return "sink_failed"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	default:
		return "internal"
	}
}
