package control

import "fmt"

// Operator facing messages.
const (
	Prompt = "Enter command (F to feed, H to ping, Q to quit): "

	MsgPinging        = "Pinging feeder..."
	MsgNoHandshake    = "Error: feeder did not respond. Is it plugged in?"
	MsgVerified       = "Connection Verified! Entering Control Loop."
	MsgExiting        = "Exiting program..."
	MsgSentFeed       = "[PC] Sent: F (Feeding...)"
	MsgAwaitFeed      = "Waiting here for confirmation from feeder..."
	MsgFeedTimeout    = "[Warning] No response received from feeder (Timeout)"
	MsgSentPing       = "[PC] Sent: H (Ping)"
	MsgPingSilent     = "[Warning] No response. Connection might be lost."
	MsgInvalid        = "Invalid Command. Please enter 'F', 'H', or 'Q'."
	MsgInterrupted    = "Program terminated by Ctrl + C."
	MsgClosed         = "Serial connection closed safely."
	peerPrefix        = "[MCU]: "
	connectedFmt      = "Successfully connected to %s"
	connectFailedFmt  = "Error connecting to serial port: %v"
	attemptFmt        = "Ping attempt %d..."
	connectionLostFmt = "[Error] Connection lost! The device seems to be disconnected: %v"
	unexpectedFmt     = "[Error] An unexpected error occurred: %v"
)

// PeerLine formats a line received from the feeder.
func PeerLine(line string) string {
	return peerPrefix + line
}

// Connected reports a successful open.
func Connected(port string) string {
	return fmt.Sprintf(connectedFmt, port)
}

// ConnectFailed reports an open failure.
func ConnectFailed(err error) string {
	return fmt.Sprintf(connectFailedFmt, err)
}

// Attempt reports a handshake attempt, n starting from 1.
func Attempt(n int) string {
	return fmt.Sprintf(attemptFmt, n)
}

// ConnectionLost reports a transport failure.
func ConnectionLost(err error) string {
	return fmt.Sprintf(connectionLostFmt, err)
}

// Unexpected reports any other fatal error.
func Unexpected(err error) string {
	return fmt.Sprintf(unexpectedFmt, err)
}
