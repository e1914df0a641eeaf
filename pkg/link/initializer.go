package link

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/feedlink/pkg/framework"
)

// AttemptNotifier is called after every handshake attempt.
type AttemptNotifier interface {
	AttemptDone(HandshakeAttempt)
}

// AttemptDoneFunc is func type of AttemptNotifier.
type AttemptDoneFunc func(HandshakeAttempt)

// AttemptDone implements AttemptNotifier.
func (f AttemptDoneFunc) AttemptDone(a HandshakeAttempt) {
	f(a)
}

// Initializer opens the transport and confirms the peer is alive.
type Initializer struct {
	Opener   Opener
	Attempts int
	Notifier AttemptNotifier
	// Opened, if set, is called once the transport is open, before the handshake.
	Opened func(Config)
}

// NewInitializer creates an Initializer with default attempts.
func NewInitializer(opener Opener) *Initializer {
	return &Initializer{Opener: opener, Attempts: DefaultHandshakeAttempts}
}

// WithNotifier sets Notifier.
func (i *Initializer) WithNotifier(n AttemptNotifier) *Initializer {
	i.Notifier = n
	return i
}

// Initialize opens the transport described by conf and runs the handshake.
// On success the returned Session is online and owns the open transport.
// On any failure the transport, if opened, is already closed.
// Canceling ctx stops the handshake between reads with ErrInterrupted.
func (i *Initializer) Initialize(ctx context.Context, conf Config) (*Session, error) {
	if conf.ReadTimeout <= 0 {
		conf.ReadTimeout = DefaultReadTimeout
	}
	t, err := i.Opener.Open(conf)
	if err != nil {
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			return nil, err
		}
		return nil, &ConnectionError{Port: conf.Port, Err: err}
	}
	glog.Infof("opened %s at %d baud", conf.Port, conf.BaudRate)
	if fn := i.Opened; fn != nil {
		fn(conf)
	}

	s := newSession(conf, t)
	if err = i.handshake(ctx, s); err != nil {
		var errs fx.AggregatedError
		return nil, errs.Add(err, s.Close()).Aggregate()
	}
	s.online = true
	return s, nil
}

func (i *Initializer) handshake(ctx context.Context, s *Session) error {
	// the board may send garbage on power-up.
	if err := s.ResetInput(); err != nil {
		return err
	}
	hs := NewHandshake(i.Attempts)
	for {
		if err := interrupted(ctx); err != nil {
			return err
		}
		if err := s.Send(TokenPing); err != nil {
			return err
		}
		resp, err := s.ReadLine()
		if err != nil {
			return err
		}
		if err = interrupted(ctx); err != nil {
			return err
		}
		attempt, outcome := hs.Step(resp)
		glog.V(1).Infof("handshake attempt %d: %q %s", attempt.Index+1, resp, outcome)
		if n := i.Notifier; n != nil {
			n.AttemptDone(attempt)
		}
		switch outcome {
		case HandshakeSuccess:
			glog.Infof("peer on %s is ready", s.Config.Port)
			return nil
		case HandshakeExhausted:
			glog.Warningf("peer on %s did not respond after %d attempts", s.Config.Port, hs.Attempts())
			return ErrHandshakeFailed
		}
	}
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("handshake: %w: %w", ErrInterrupted, err)
	}
	return nil
}

// Initialize is a shortcut using an Initializer with defaults.
func Initialize(ctx context.Context, opener Opener, conf Config) (*Session, error) {
	return NewInitializer(opener).Initialize(ctx, conf)
}
