package control

import "strings"

// Command is an operator request.
type Command byte

// Commands accepted at the prompt.
const (
	CommandInvalid Command = 0
	CommandFeed    Command = 'F'
	CommandPing    Command = 'H'
	CommandQuit    Command = 'Q'
)

// String implements fmt.Stringer.
func (c Command) String() string {
	switch c {
	case CommandFeed:
		return "feed"
	case CommandPing:
		return "ping"
	case CommandQuit:
		return "quit"
	}
	return "invalid"
}

// ParseCommand maps a line of operator input to a Command.
// The input is trimmed and compared case-insensitively; it must be
// exactly one of F, H or Q. ok is false for blank input.
func ParseCommand(input string) (cmd Command, ok bool) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if input == "" {
		return CommandInvalid, false
	}
	if len(input) == 1 {
		switch c := Command(input[0]); c {
		case CommandFeed, CommandPing, CommandQuit:
			return c, true
		}
	}
	return CommandInvalid, true
}
