package link

import "fmt"

// HandshakeOutcome is the result of one handshake step.
type HandshakeOutcome int

const (
	// HandshakeRetry means the reply was not Ready and attempts remain.
	HandshakeRetry HandshakeOutcome = iota
	// HandshakeSuccess means the peer replied Ready.
	HandshakeSuccess
	// HandshakeExhausted means the last attempt failed.
	HandshakeExhausted
)

// String implements fmt.Stringer.
func (o HandshakeOutcome) String() string {
	switch o {
	case HandshakeRetry:
		return "retry"
	case HandshakeSuccess:
		return "success"
	case HandshakeExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// HandshakeAttempt describes one ping and its reply.
type HandshakeAttempt struct {
	// Index starts from 0.
	Index    int
	Response string
	OK       bool
}

// Handshake tracks the attempts of the startup handshake.
type Handshake struct {
	MaxAttempts int

	attempts int
	done     bool
	outcome  HandshakeOutcome
}

// NewHandshake creates a Handshake allowing maxAttempts pings.
func NewHandshake(maxAttempts int) *Handshake {
	if maxAttempts <= 0 {
		maxAttempts = DefaultHandshakeAttempts
	}
	return &Handshake{MaxAttempts: maxAttempts}
}

// Attempts returns how many replies have been consumed.
func (h *Handshake) Attempts() int {
	return h.attempts
}

// Step consumes the decoded reply of the current attempt.
// Once Success or Exhausted is returned, further steps return the same.
func (h *Handshake) Step(response string) (HandshakeAttempt, HandshakeOutcome) {
	attempt := HandshakeAttempt{Index: h.attempts, Response: response}
	if h.done {
		return attempt, h.outcome
	}
	h.attempts++
	switch attempt.OK = IsReady(response); {
	case attempt.OK:
		h.done, h.outcome = true, HandshakeSuccess
	case h.attempts >= h.MaxAttempts:
		h.done, h.outcome = true, HandshakeExhausted
	default:
		return attempt, HandshakeRetry
	}
	return attempt, h.outcome
}
