package order

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure of the order workflow.
type Kind int

const (
	// KindUnknown is any error not raised by this package, e.g. a storage failure.
	KindUnknown Kind = iota
	KindNotFound
	KindInsufficientCondition
	KindValidationFailed
	KindClientError
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInsufficientCondition:
		return "insufficient_condition"
	case KindValidationFailed:
		return "validation_failed"
	case KindClientError:
		return "client_error"
	default:
		return "unknown"
	}
}

// Status is the HTTP status a failure of this kind is reported with.
func (k Kind) Status() int {
	switch k {
	case KindNotFound, KindInsufficientCondition:
		return http.StatusNotFound
	case KindValidationFailed, KindClientError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Messages used by the workflow.
const (
	MsgInsufficientQuantity = "insufficient quantity"
	MsgInsufficientBalance  = "insufficient balance"
	MsgValidationFailed     = "Validation failed"
)

// Error is a classified domain failure.
type Error struct {
	Kind    Kind
	Message string
	// Fields maps request field names to messages for KindValidationFailed.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status for the error kind.
func (e *Error) Status() int { return e.Kind.Status() }

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InsufficientCondition builds a business rule violation.
func InsufficientCondition(msg string) *Error {
	return &Error{Kind: KindInsufficientCondition, Message: msg}
}

// ValidationFailed builds a validation error carrying one message per field.
func ValidationFailed(fields map[string]string) *Error {
	return &Error{Kind: KindValidationFailed, Message: MsgValidationFailed, Fields: fields}
}

// ClientError wraps a failed call to a downstream service.
func ClientError(msg string, err error) *Error {
	return &Error{Kind: KindClientError, Message: msg, Err: err}
}

// KindOf reports the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
