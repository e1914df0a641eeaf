package control

import (
	"context"
	"errors"

	"github.com/robotalks/feedlink/pkg/link"
)

// Connect initializes the link and reports progress to p.
// When it fails the transport is already closed and the reason is printed.
// Canceling ctx interrupts the handshake.
func Connect(ctx context.Context, opener link.Opener, conf link.Config, p Printer) (*link.Session, error) {
	initializer := link.NewInitializer(opener).
		WithNotifier(link.AttemptDoneFunc(func(a link.HandshakeAttempt) {
			p.Print(Attempt(a.Index + 1))
			if a.OK {
				p.Print(PeerLine(a.Response))
			}
		}))
	initializer.Opened = func(conf link.Config) {
		p.Print(Connected(conf.Port))
		p.Print(MsgPinging)
	}
	s, err := initializer.Initialize(ctx, conf)
	switch {
	case err == nil:
		p.Print(MsgVerified)
		return s, nil
	case errors.Is(err, link.ErrConnectionFailed):
		p.Print(ConnectFailed(err))
		return nil, err
	case errors.Is(err, link.ErrInterrupted):
		p.Print(MsgInterrupted)
	case errors.Is(err, link.ErrHandshakeFailed):
		p.Print(MsgNoHandshake)
	default:
		p.Print(ConnectionLost(err))
	}
	p.Print(MsgClosed)
	return nil, err
}
