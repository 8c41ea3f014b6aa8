package transmission

import (
	"errors"
	"fmt"
)

// ErrAuthRenewalExhausted is returned when the daemon answers the retried
// request with a second authorization conflict.
var ErrAuthRenewalExhausted = errors.New("session renewal exhausted")

// TransportError reports a failure to reach the daemon at all: connection
// refused, DNS failure, timeout or cancellation.
type TransportError struct {
	Method Method
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a response the client could not accept: an HTTP
// error status, a malformed envelope, or a result other than "success".
type ProtocolError struct {
	Method Method
	// Status is the HTTP status code, zero when the transport succeeded.
	Status int
	// Result is the daemon's result string when it was not "success".
	Result string
	Err    error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Result != "":
		return fmt.Sprintf("%s: daemon returned %q", e.Method, e.Result)
	case e.Status != 0 && e.Err == nil:
		return fmt.Sprintf("%s: daemon returned status %d", e.Method, e.Status)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Method, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Method, e.Err)
	}
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ConfigError reports a client that cannot be constructed from the supplied
// settings.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
