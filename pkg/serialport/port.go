// Package serialport implements link.Transport over a serial device.
package serialport

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/robotalks/feedlink/pkg/link"
)

// device is the part of serial.Port used here.
type device interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
	SetReadTimeout(time.Duration) error
}

var openDevice = func(name string, mode *serial.Mode) (device, error) {
	return serial.Open(name, mode)
}

// availablePoll bounds the read issued by Available when nothing is buffered.
const availablePoll = 5 * time.Millisecond

const chunkSize = 256

// Port is a line buffered serial device.
type Port struct {
	Name string

	dev     device
	buf     []byte
	chunk   []byte
	timeout time.Duration
}

// Open opens the device named by conf.Port, 8N1 at conf.BaudRate.
func Open(conf link.Config) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: conf.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	dev, err := openDevice(conf.Port, mode)
	if err != nil {
		return nil, &link.ConnectionError{Port: conf.Port, Err: describe(err)}
	}
	p := &Port{Name: conf.Port, dev: dev, chunk: make([]byte, chunkSize)}
	timeout := conf.ReadTimeout
	if timeout <= 0 {
		timeout = link.DefaultReadTimeout
	}
	if err = p.setTimeout(timeout); err != nil {
		dev.Close()
		return nil, &link.ConnectionError{Port: conf.Port, Err: err}
	}
	return p, nil
}

// Opener opens Ports as link.Transport.
var Opener link.Opener = link.OpenFunc(func(conf link.Config) (link.Transport, error) {
	p, err := Open(conf)
	if err != nil {
		return nil, err
	}
	return p, nil
})

// Write implements link.Transport.
func (p *Port) Write(b []byte) (int, error) {
	return p.dev.Write(b)
}

// ReadLine implements link.Transport. When timeout elapses before a
// newline arrives, the partial line received so far is returned.
func (p *Port) ReadLine(timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		if i := bytes.IndexByte(p.buf, '\n'); i >= 0 {
			return p.take(i + 1), nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return p.take(len(p.buf)), nil
		}
		if _, err := p.fill(remaining); err != nil {
			return nil, err
		}
	}
}

// Available implements link.Transport.
// go.bug.st/serial has no in-waiting count, so with nothing buffered this
// reads from the device for at most availablePoll and counts what arrived.
// Bytes read this way stay buffered for the next ReadLine.
func (p *Port) Available() (int, error) {
	if len(p.buf) > 0 {
		return len(p.buf), nil
	}
	if _, err := p.fill(availablePoll); err != nil {
		return 0, err
	}
	return len(p.buf), nil
}

// ResetInputBuffer implements link.Transport.
func (p *Port) ResetInputBuffer() error {
	if n := len(p.buf); n > 0 {
		glog.V(3).Infof("%s: discard %d buffered bytes", p.Name, n)
	}
	p.buf = p.buf[:0]
	return p.dev.ResetInputBuffer()
}

// Close implements link.Transport.
func (p *Port) Close() error {
	return p.dev.Close()
}

func (p *Port) take(n int) []byte {
	if n == 0 {
		return nil
	}
	line := make([]byte, n)
	copy(line, p.buf)
	p.buf = append(p.buf[:0], p.buf[n:]...)
	return line
}

func (p *Port) fill(timeout time.Duration) (int, error) {
	if err := p.setTimeout(timeout); err != nil {
		return 0, err
	}
	n, err := p.dev.Read(p.chunk)
	if n > 0 {
		p.buf = append(p.buf, p.chunk[:n]...)
	}
	return n, err
}

func (p *Port) setTimeout(timeout time.Duration) error {
	if timeout == p.timeout {
		return nil
	}
	if err := p.dev.SetReadTimeout(timeout); err != nil {
		return err
	}
	p.timeout = timeout
	return nil
}

// describe adds a hint to well known open failures.
func describe(err error) error {
	var portErr *serial.PortError
	if !errors.As(err, &portErr) {
		return err
	}
	switch portErr.Code() {
	case serial.PortNotFound:
		return &hintError{err: err, hint: "is the cable plugged in?"}
	case serial.PortBusy:
		return &hintError{err: err, hint: "is another program using the port?"}
	case serial.PermissionDenied:
		return &hintError{err: err, hint: "check access rights to the device"}
	}
	return err
}

type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() + " (" + e.hint + ")" }
func (e *hintError) Unwrap() error { return e.err }
