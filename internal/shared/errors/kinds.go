package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinels classify client-side failures. Match with errors.Is.
var (
	// ErrTransport marks network or HTTP failures talking to the backend.
	ErrTransport = stderrors.New("transport failure")
	// ErrNotFound marks a successful response that carried no payload.
	ErrNotFound = stderrors.New("not found")
	// ErrValidation marks a locally rejected mutation.
	ErrValidation = stderrors.New("validation failed")
)

// TransportError describes a failed gateway call.
type TransportError struct {
	// Op names the gateway operation, e.g. "list products".
	Op string
	// Status is the HTTP status code, zero when no response was received.
	Status int
	// Message is the server-provided message, if any.
	Message string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" && e.Status != 0 {
		msg = http.StatusText(e.Status)
	}
	if msg == "" {
		msg = "unknown error"
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// NotFoundError reports a by-id lookup that returned an empty body.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewTransportError builds a TransportError, trimming the message.
func NewTransportError(op string, status int, message string, err error) *TransportError {
	return &TransportError{Op: op, Status: status, Message: strings.TrimSpace(message), Err: err}
}

// NewNotFoundError builds a NotFoundError for the given resource.
func NewNotFoundError(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// StatusOf returns the HTTP status carried by a TransportError in err's chain.
func StatusOf(err error) int {
	var te *TransportError
	if stderrors.As(err, &te) {
		return te.Status
	}
	return 0
}
