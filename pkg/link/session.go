package link

import (
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/feedlink/pkg/framework"
)

// Session is the open link to the peer.
// It is not safe for concurrent use; commands are strictly serialized.
type Session struct {
	Config Config

	transport Transport
	closer    *fx.OnceCloser
	online    bool
}

func newSession(conf Config, t Transport) *Session {
	return &Session{
		Config:    conf,
		transport: t,
		closer:    fx.NewOnceCloser(t),
	}
}

// Online indicates handshake succeeded and the session is not closed.
func (s *Session) Online() bool {
	return s.online && !s.closer.Closed()
}

// Send writes a single command byte.
func (s *Session) Send(token byte) error {
	if s.closer.Closed() {
		return ErrNotOnline
	}
	glog.V(2).Infof("TX %q", token)
	if _, err := s.transport.Write([]byte{token}); err != nil {
		return lost("write", err)
	}
	return nil
}

// ReadLine reads one reply bounded by the configured read timeout.
// An empty string is returned if nothing arrived in time.
func (s *Session) ReadLine() (string, error) {
	if s.closer.Closed() {
		return "", ErrNotOnline
	}
	raw, err := s.transport.ReadLine(s.readTimeout())
	if err != nil {
		return "", lost("read", err)
	}
	line := DecodeLine(raw)
	glog.V(2).Infof("RX %q", line)
	return line, nil
}

// Available returns the count of received bytes not yet read.
func (s *Session) Available() (int, error) {
	if s.closer.Closed() {
		return 0, ErrNotOnline
	}
	n, err := s.transport.Available()
	if err != nil {
		return 0, lost("available", err)
	}
	return n, nil
}

// ResetInput discards everything queued on the input side.
func (s *Session) ResetInput() error {
	if s.closer.Closed() {
		return ErrNotOnline
	}
	if err := s.transport.ResetInputBuffer(); err != nil {
		return lost("reset input", err)
	}
	return nil
}

// Close releases the transport. Only the first call closes it.
func (s *Session) Close() error {
	if !s.closer.Closed() {
		glog.Infof("closing %s", s.Config.Port)
	}
	return s.closer.Close()
}

// Closed indicates Close has been called.
func (s *Session) Closed() bool {
	return s.closer.Closed()
}

func (s *Session) readTimeout() time.Duration {
	if s.Config.ReadTimeout > 0 {
		return s.Config.ReadTimeout
	}
	return DefaultReadTimeout
}
