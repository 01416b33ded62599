package scraper

import (
	"errors"
	"fmt"
)

// ErrorType categorizes failures of a job request
type ErrorType string

const (
	// ErrorTypeTransport covers failed calls and unparseable payloads
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeApplication covers completed calls that report a failure
	ErrorTypeApplication ErrorType = "application"
)

// User-visible messages.
const (
	ConnectFailedMessage = "Failed to connect to the server."
	UnknownErrorMessage  = "An unknown error occurred."
)

// ScraperError represents a structured error from the job endpoint
type ScraperError struct {
	Type ErrorType
	// Message is the server-supplied message for application errors and a
	// short description for transport errors.
	Message string
	// StatusCode and Status are set when a response was received.
	StatusCode int
	Status     string
	Cause      error
}

// Error implements the error interface
func (e *ScraperError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "no message"
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for error unwrapping
func (e *ScraperError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the text shown in the error region
func (e *ScraperError) UserMessage() string {
	switch e.Type {
	case ErrorTypeApplication:
		if e.Message != "" {
			return e.Message
		}
		return UnknownErrorMessage
	default:
		return ConnectFailedMessage
	}
}

// UserMessage maps any error returned by the client to the text shown to
// the user. Errors that did not come from the client count as transport
// failures.
func UserMessage(err error) string {
	var scraperErr *ScraperError
	if errors.As(err, &scraperErr) {
		return scraperErr.UserMessage()
	}
	return ConnectFailedMessage
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var scraperErr *ScraperError
	if errors.As(err, &scraperErr) {
		return scraperErr.Type == ErrorTypeTransport
	}
	return err != nil
}

func newTransportError(message string, cause error) *ScraperError {
	return &ScraperError{
		Type:    ErrorTypeTransport,
		Message: message,
		Cause:   cause,
	}
}

func newApplicationError(statusCode int, status, message string) *ScraperError {
	return &ScraperError{
		Type:       ErrorTypeApplication,
		Message:    message,
		StatusCode: statusCode,
		Status:     status,
	}
}
