package control

import "fmt"

// State is the state of the command loop.
type State string

// Event drives State transitions.
type Event string

const (
	StateAwaitingCommand State = "awaiting-command"
	StateExecuting       State = "executing"
	StateTerminated      State = "terminated"
)

const (
	EventCommand   Event = "command"
	EventDone      Event = "done"
	EventQuit      Event = "quit"
	EventInterrupt Event = "interrupt"
	EventFail      Event = "fail"
)

// Transition computes the next state.
func Transition(current State, event Event) (State, error) {
	switch current {
	case StateAwaitingCommand:
		switch event {
		case EventCommand:
			return StateExecuting, nil
		case EventQuit, EventInterrupt, EventFail:
			return StateTerminated, nil
		}
	case StateExecuting:
		switch event {
		case EventDone:
			return StateAwaitingCommand, nil
		case EventQuit, EventInterrupt, EventFail:
			return StateTerminated, nil
		}
	case StateTerminated:
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
	return current, fmt.Errorf("invalid transition: %s --(%s)--> ?", current, event)
}
