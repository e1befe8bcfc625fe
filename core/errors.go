package core

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// RequestError is returned by a Transport when the server answers with a non-2xx status.
// Message holds the server supplied `message`, if any.
type RequestError struct {
	StatusCode int
	Message    string
}

func NewRequestError(code int, msg string) error {
	return &RequestError{StatusCode: code, Message: msg}
}

func (err RequestError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("request failed: %d %s", err.StatusCode, http.StatusText(err.StatusCode))
	}
	return fmt.Sprintf("request failed: %d %s", err.StatusCode, err.Message)
}

// IsCanceled reports whether err is the result of a superseded or torn down request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// ErrorMessage returns the text to show for a failed request:
// the server's message when it sent one, `fallback` otherwise.
func ErrorMessage(err error, fallback string) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}
