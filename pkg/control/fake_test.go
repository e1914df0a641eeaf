package control

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/feedlink/pkg/link"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Time() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

// fakePeer queues scripted replies whenever a token is written.
// An empty read costs the whole read timeout on the fake clock.
type fakePeer struct {
	clock    *fakeClock
	scripts  map[byte][]string
	pending  []string
	written  []byte
	reads    int
	resets   int
	closes   int
	writeErr error
	readErr  error
	onRead   func()
}

func (p *fakePeer) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.written = append(p.written, b...)
	for _, token := range b {
		p.pending = append(p.pending, p.scripts[token]...)
	}
	return len(b), nil
}

func (p *fakePeer) ReadLine(timeout time.Duration) ([]byte, error) {
	p.reads++
	if p.onRead != nil {
		p.onRead()
	}
	if p.readErr != nil {
		return nil, p.readErr
	}
	if len(p.pending) == 0 {
		p.clock.now = p.clock.now.Add(timeout)
		return nil, nil
	}
	line := p.pending[0]
	p.pending = p.pending[1:]
	p.clock.now = p.clock.now.Add(10 * time.Millisecond)
	return []byte(line), nil
}

func (p *fakePeer) Available() (int, error) {
	n := 0
	for _, line := range p.pending {
		n += len(line)
	}
	return n, nil
}

func (p *fakePeer) ResetInputBuffer() error {
	p.resets++
	p.pending = nil
	return nil
}

func (p *fakePeer) Close() error {
	p.closes++
	return nil
}

type fakeConsole struct {
	inputs []string
	endErr error
	output []string
}

func (c *fakeConsole) ReadLine() (string, error) {
	if len(c.inputs) == 0 {
		if c.endErr != nil {
			return "", c.endErr
		}
		return "", io.EOF
	}
	line := c.inputs[0]
	c.inputs = c.inputs[1:]
	return line, nil
}

func (c *fakeConsole) Print(s string) {
	c.output = append(c.output, s)
}

func (c *fakeConsole) printed(s string) int {
	n := 0
	for _, line := range c.output {
		if strings.Contains(line, s) {
			n++
		}
	}
	return n
}

type loopTestEnv struct {
	t       *testing.T
	clock   *fakeClock
	peer    *fakePeer
	console *fakeConsole
	loop    *Loop
}

func newLoopTestEnv(t *testing.T, inputs ...string) *loopTestEnv {
	env := &loopTestEnv{
		t:       t,
		clock:   &fakeClock{now: time.Unix(1700000000, 0)},
		console: &fakeConsole{inputs: inputs},
	}
	env.peer = &fakePeer{
		clock:   env.clock,
		scripts: map[byte][]string{link.TokenPing: {"Ready\r\n"}},
	}
	opener := link.OpenFunc(func(link.Config) (link.Transport, error) {
		return env.peer, nil
	})
	s, err := link.Initialize(context.Background(), opener, link.Config{Port: "/dev/ttyTEST", BaudRate: 115200, ReadTimeout: time.Second})
	require.NoError(t, err)
	// forget the handshake.
	env.peer.written, env.peer.reads, env.peer.resets = nil, 0, 0
	env.loop = NewLoop(s, env.console)
	env.loop.Clock = env.clock
	return env
}
