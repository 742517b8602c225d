package pagesum

import (
	"errors"
	"fmt"
)

// Error codes. Every failure that crosses the package boundary carries one
// of these codes so it can be rendered as a user-facing message.
const (
	ENETWORK    = "network"     // transport could not connect or dispatch
	EHTTPSTATUS = "http_status" // page returned a non-2xx status
	EHTMLPARSE  = "html_parse"  // body could not be decoded or parsed
	EEXTRACTION = "extraction"  // no usable text found
	ETOOSHORT   = "too_short"   // text below MinContentLength
	EUNKNOWN    = "unknown"     // internal or unclassified failure
	EAIREQUEST  = "ai_request"  // summarization request failed
)

// Error represents a pagesum failure.
type Error struct {
	// Code is one of the E* constants.
	Code string

	// Message is the internal diagnostic. It is only shown to end users
	// for EAIREQUEST.
	Message string

	// Status holds the HTTP status code for EHTTPSTATUS errors.
	Status int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == EHTTPSTATUS {
		return fmt.Sprintf("pagesum error: code=%s status=%d message=%s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("pagesum error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// StatusError returns an EHTTPSTATUS error for the given response status.
func StatusError(status int) *Error {
	return &Error{
		Code:    EHTTPSTATUS,
		Message: fmt.Sprintf("unexpected status %d", status),
		Status:  status,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EUNKNOWN.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EUNKNOWN
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "internal error".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// ErrorStatus returns the HTTP status carried by an EHTTPSTATUS error, or 0.
func ErrorStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
