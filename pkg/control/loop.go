package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/feedlink/pkg/framework"
	"github.com/robotalks/feedlink/pkg/link"
)

// Printer prints a line for the operator.
type Printer interface {
	Print(string)
}

// Console is the operator side of the loop.
// ReadLine returns link.ErrInterrupted when the operator interrupts
// and io.EOF when input ends.
type Console interface {
	Printer
	ReadLine() (string, error)
}

// Default timings.
const (
	DefaultFeedTimeout = 5 * time.Second
	DefaultSettleDelay = 100 * time.Millisecond
)

// Loop reads operator commands and runs them over the Session.
type Loop struct {
	Session *link.Session
	Console Console
	Clock   fx.Clock

	// FeedTimeout bounds the wait for the feed confirmation.
	FeedTimeout time.Duration
	// SettleDelay is how long to wait after a ping before checking for a reply.
	SettleDelay time.Duration

	state State
}

// NewLoop creates a Loop with default timings and the system clock.
func NewLoop(s *link.Session, console Console) *Loop {
	return &Loop{
		Session:     s,
		Console:     console,
		Clock:       fx.SystemClock,
		FeedTimeout: DefaultFeedTimeout,
		SettleDelay: DefaultSettleDelay,
		state:       StateAwaitingCommand,
	}
}

// State returns the current state.
func (l *Loop) State() State {
	if l.state == "" {
		return StateAwaitingCommand
	}
	return l.state
}

func (l *Loop) fire(event Event) error {
	next, err := Transition(l.State(), event)
	if err != nil {
		return err
	}
	glog.V(3).Infof("loop %s --(%s)--> %s", l.State(), event, next)
	l.state = next
	return nil
}

// Run processes commands until quit, interrupt or a fatal error.
// It returns nil on quit or end of input, an error matching
// link.ErrInterrupted on interrupt, and the fatal error otherwise.
// The session is left open.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return l.terminate(EventInterrupt, link.ErrInterrupted)
		}
		input, err := l.Console.ReadLine()
		switch {
		case ctx.Err() != nil || errors.Is(err, link.ErrInterrupted):
			return l.terminate(EventInterrupt, link.ErrInterrupted)
		case errors.Is(err, io.EOF):
			l.Console.Print(MsgExiting)
			return l.terminate(EventQuit, nil)
		case err != nil:
			return l.terminate(EventFail, fmt.Errorf("read command: %w", err))
		}
		cmd, ok := ParseCommand(input)
		if !ok {
			continue
		}
		if err = l.fire(EventCommand); err != nil {
			return err
		}
		if err = l.Execute(ctx, cmd); err != nil {
			if errors.Is(err, link.ErrInterrupted) {
				return l.terminate(EventInterrupt, err)
			}
			return l.terminate(EventFail, err)
		}
		if cmd == CommandQuit {
			return l.terminate(EventQuit, nil)
		}
		if err = l.fire(EventDone); err != nil {
			return err
		}
	}
}

func (l *Loop) terminate(event Event, cause error) error {
	if err := l.fire(event); err != nil {
		return err
	}
	return cause
}

// Execute runs a single command. The input buffer is reset first.
// Timeouts and silence are reported and are not errors.
func (l *Loop) Execute(ctx context.Context, cmd Command) error {
	if err := l.Session.ResetInput(); err != nil {
		return err
	}
	switch cmd {
	case CommandQuit:
		l.Console.Print(MsgExiting)
		return nil
	case CommandFeed:
		return l.feed(ctx)
	case CommandPing:
		return l.ping()
	}
	l.Console.Print(MsgInvalid)
	return nil
}

func (l *Loop) feed(ctx context.Context) error {
	if err := l.Session.Send(link.TokenFeed); err != nil {
		return err
	}
	l.Console.Print(MsgSentFeed)
	l.Console.Print(MsgAwaitFeed)

	timeout := l.FeedTimeout
	if timeout <= 0 {
		timeout = DefaultFeedTimeout
	}
	start := l.clock().Time()
	for l.clock().Time().Sub(start) < timeout {
		if ctx.Err() != nil {
			return link.ErrInterrupted
		}
		line, err := l.Session.ReadLine()
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		l.Console.Print(PeerLine(line))
		if link.IsComplete(line) {
			return nil
		}
	}
	glog.Warningf("feed not confirmed within %v", timeout)
	l.Console.Print(MsgFeedTimeout)
	return nil
}

func (l *Loop) ping() error {
	if err := l.Session.Send(link.TokenPing); err != nil {
		return err
	}
	l.Console.Print(MsgSentPing)

	delay := l.SettleDelay
	if delay <= 0 {
		delay = DefaultSettleDelay
	}
	l.clock().Sleep(delay)
	n, err := l.Session.Available()
	if err != nil {
		return err
	}
	if n == 0 {
		l.Console.Print(MsgPingSilent)
		return nil
	}
	line, err := l.Session.ReadLine()
	if err != nil {
		return err
	}
	l.Console.Print(PeerLine(line))
	return nil
}

func (l *Loop) clock() fx.Clock {
	if l.Clock == nil {
		return fx.SystemClock
	}
	return l.Clock
}

// Serve runs the loop and then shuts down.
func (l *Loop) Serve(ctx context.Context) error {
	return l.Shutdown(l.Run(ctx))
}

// Shutdown reports why the loop ended, closes the session and confirms it.
// Quit and interrupt are not errors; anything else is returned.
func (l *Loop) Shutdown(cause error) error {
	var errs fx.AggregatedError
	switch {
	case cause == nil:
	case errors.Is(cause, link.ErrInterrupted), errors.Is(cause, context.Canceled):
		l.Console.Print(MsgInterrupted)
	case errors.Is(cause, link.ErrConnectionLost):
		glog.Warningf("connection lost: %v", cause)
		l.Console.Print(ConnectionLost(cause))
		errs.Add(cause)
	default:
		glog.Errorf("unexpected error: %v", cause)
		l.Console.Print(Unexpected(cause))
		errs.Add(cause)
	}
	if err := l.Session.Close(); err != nil {
		glog.Warningf("close %s: %v", l.Session.Config.Port, err)
		errs.Add(err)
	}
	l.Console.Print(MsgClosed)
	return errs.Aggregate()
}
