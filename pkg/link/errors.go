package link

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed indicates the transport could not be opened.
	// Returned errors are *ConnectionError which match it with errors.Is.
	ErrConnectionFailed = errors.New("connection failed")
	// ErrHandshakeFailed indicates the peer never answered the ping with Ready.
	ErrHandshakeFailed = errors.New("handshake failed")
	// ErrConnectionLost indicates a transport failure after the device was opened.
	ErrConnectionLost = errors.New("connection lost")
	// ErrNotOnline indicates the session is closed or never completed handshake.
	ErrNotOnline = errors.New("not online")
	// ErrInterrupted indicates the operator asked to leave.
	ErrInterrupted = errors.New("interrupted")
)

// ConnectionError wraps the cause of an open failure.
type ConnectionError struct {
	Port string
	Err  error
}

// Error implements error.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Port, e.Err)
}

// Unwrap returns the cause.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConnectionFailed) hold.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnectionFailed
}

func lost(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrConnectionLost, err)
}
