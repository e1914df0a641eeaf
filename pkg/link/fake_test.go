package link

import (
	"errors"
	"time"
)

type fakeTransport struct {
	replies  []string
	events   []string
	written  []byte
	closes   int
	writeErr error
	readErr  error
	timeouts []time.Duration
	onRead   func()
}

func (t *fakeTransport) Write(p []byte) (int, error) {
	t.events = append(t.events, "write:"+string(p))
	if t.writeErr != nil {
		return 0, t.writeErr
	}
	t.written = append(t.written, p...)
	return len(p), nil
}

func (t *fakeTransport) ReadLine(timeout time.Duration) ([]byte, error) {
	t.events = append(t.events, "read")
	t.timeouts = append(t.timeouts, timeout)
	if fn := t.onRead; fn != nil {
		fn()
	}
	if t.readErr != nil {
		return nil, t.readErr
	}
	if len(t.replies) == 0 {
		return nil, nil
	}
	line := t.replies[0]
	t.replies = t.replies[1:]
	return []byte(line), nil
}

func (t *fakeTransport) Available() (int, error) {
	if len(t.replies) == 0 {
		return 0, nil
	}
	return len(t.replies[0]), nil
}

func (t *fakeTransport) ResetInputBuffer() error {
	t.events = append(t.events, "reset")
	return nil
}

func (t *fakeTransport) Close() error {
	t.events = append(t.events, "close")
	t.closes++
	return nil
}

func openerOf(t *fakeTransport) Opener {
	return OpenFunc(func(Config) (Transport, error) {
		return t, nil
	})
}

var errUnplugged = errors.New("unplugged")
