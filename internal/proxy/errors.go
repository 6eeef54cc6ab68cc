package proxy

import (
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a relay failure.
type Kind uint8

const (
	// KindValidation covers malformed input: bad URL, bad JSON body,
	// bad form-data. Client fault, never retried.
	KindValidation Kind = iota + 1
	// KindSecurity covers destinations rejected by the deny list.
	KindSecurity
	// KindTimeout covers outbound calls that exceeded the hard deadline.
	KindTimeout
	// KindTransport covers DNS, connection, and TLS failures.
	KindTransport
)

// Error is the single failure type the relay returns. Status carries the
// HTTP status the handler layer should respond with.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid reports malformed caller input.
func Invalid(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

// Blocked reports a destination rejected by the deny list.
func Blocked(message string) *Error {
	return &Error{Kind: KindSecurity, Status: http.StatusBadRequest, Message: message}
}

// Expired reports an outbound call that hit the hard deadline.
func Expired(timeout time.Duration) *Error {
	return &Error{
		Kind:    KindTimeout,
		Status:  http.StatusGatewayTimeout,
		Message: fmt.Sprintf("Request timeout (%d seconds)", int(timeout.Seconds())),
	}
}

// TransportFailure wraps any other outbound transport error. The transport
// message is passed through when available.
func TransportFailure(err error) *Error {
	message := "Request failed"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return &Error{
		Kind:    KindTransport,
		Status:  http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}
