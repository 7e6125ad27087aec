package haclient

import (
	"errors"
	"fmt"
)

// ErrConnectionLost is returned for commands that were in flight when the
// websocket dropped, and for commands submitted while the transport is not
// connected (reconnecting included).
var ErrConnectionLost = errors.New("connection to Home Assistant lost")

// ConnectionError wraps network-level failures: dial errors, timeouts,
// unreachable hosts.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to Home Assistant failed (%s): %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// AuthError means Home Assistant rejected the access token. It is fatal for
// the connection attempt; the transport never retries a rejected credential.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "Home Assistant rejected the access token"
	}
	return "authentication failed: " + e.Message
}

// NotFoundError maps HTTP 404 responses.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return "not found: " + e.Resource }

// ValidationError maps HTTP 400 and 422 responses; Body keeps the server's
// explanation verbatim.
type ValidationError struct {
	Body string
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Body }

// CommandError is a websocket command that Home Assistant answered with
// success=false.
type CommandError struct {
	Code    string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed (%s): %s", e.Code, e.Message)
}

// httpStatusError covers non-2xx responses not covered by the typed errors
// above.
type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.status, e.body)
}
