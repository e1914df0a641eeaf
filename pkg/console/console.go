// Package console provides the interactive operator console.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abiosoft/readline"

	fx "github.com/robotalks/feedlink/pkg/framework"
	"github.com/robotalks/feedlink/pkg/link"
)

type lineEditor interface {
	Readline() (string, error)
	Close() error
}

// Console reads operator lines with a line editor and prints to stdout.
type Console struct {
	editor lineEditor
	out    io.Writer
	closer *fx.OnceCloser
}

// New creates a Console showing prompt before every line.
func New(prompt string) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
		HistoryLimit:    100,
	})
	if err != nil {
		return nil, fmt.Errorf("create console: %w", err)
	}
	return newConsole(rl, os.Stdout), nil
}

func newConsole(editor lineEditor, out io.Writer) *Console {
	return &Console{editor: editor, out: out, closer: fx.NewOnceCloser(editor)}
}

// ReadLine reads one line. Ctrl+C yields link.ErrInterrupted,
// Ctrl+D or a closed Console yields io.EOF.
func (c *Console) ReadLine() (string, error) {
	if c.closer.Closed() {
		return "", io.EOF
	}
	line, err := c.editor.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt):
		return "", link.ErrInterrupted
	case errors.Is(err, io.EOF):
		return "", io.EOF
	case err != nil:
		if c.closer.Closed() {
			return "", io.EOF
		}
		return "", err
	}
	return line, nil
}

// Print prints a line.
func (c *Console) Print(s string) {
	fmt.Fprintln(c.out, s)
}

// Close releases the terminal. It unblocks a pending ReadLine.
func (c *Console) Close() error {
	return c.closer.Close()
}
