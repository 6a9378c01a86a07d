package protocol

import (
	"errors"
	"fmt"
)

// Error types for CDDBP operations. Each type reports whether the
// connection can be reused after the failure, so callers can decide
// between releasing and destroying a pooled session.

// ProtocolError represents a recognized non-success status from the
// server (4xx/5xx). The numeric code is preserved verbatim so callers can
// branch on server semantics. The connection is still usable: the server
// answered in protocol, it just said no.
type ProtocolError struct {
	Code    int
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("cddb: server returned %d %s", e.Code, e.Message)
}

// ShouldCloseConnection returns false - the exchange completed cleanly.
func (e *ProtocolError) ShouldCloseConnection() bool {
	return false
}

// LoginError represents a rejected handshake, either at the greeting
// (43x) or in response to hello (431). The connection is not reusable;
// the caller must reconnect.
type LoginError struct {
	Code    int
	Message string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("cddb: login failed: %d %s", e.Code, e.Message)
}

func (e *LoginError) ShouldCloseConnection() bool {
	return true
}

// MalformedResponseError indicates a line that cannot be split into a
// leading numeric status and trailing message, or a data line violating
// the block format. Guessing metadata content is worse than failing, so
// this is always fatal to the current operation.
type MalformedResponseError struct {
	Line string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cddb: malformed response %q: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("cddb: malformed response %q", e.Line)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func (e *MalformedResponseError) ShouldCloseConnection() bool {
	return true
}

// UnexpectedTerminationError indicates the transport signalled
// end-of-stream before the sentinel line of a multi-line block arrived.
type UnexpectedTerminationError struct {
	Err error
}

func (e *UnexpectedTerminationError) Error() string {
	return fmt.Sprintf("cddb: response ended before terminating sentinel: %v", e.Err)
}

func (e *UnexpectedTerminationError) Unwrap() error {
	return e.Err
}

func (e *UnexpectedTerminationError) ShouldCloseConnection() bool {
	return true
}

// ConnectionError wraps underlying I/O errors from transport operations.
type ConnectionError struct {
	Op  string // operation that failed: dial, write, read
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cddb: connection error during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) ShouldCloseConnection() bool {
	return true
}

// ErrorWithConnectionState is implemented by all protocol error types.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection reports whether an error leaves the connection in
// a state that cannot be trusted for further exchanges.
//
// Returns false for nil and for ProtocolError; true for everything else,
// including unknown error types (be conservative).
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	return true
}
