package sh

import (
	"context"
	"fmt"
	"io"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/feedlink/pkg/control"
	"github.com/robotalks/feedlink/pkg/env"
	"github.com/robotalks/feedlink/pkg/link"
	"github.com/robotalks/feedlink/pkg/serialport"
)

// Shell runs commands given on the command line through ishell.
// The link is connected on the first command needing it.
type Shell struct {
	Shell   *ishell.Shell
	Config  *env.Config
	Opener  link.Opener
	Context context.Context

	Loop   *control.Loop
	failed bool
}

const shellKey = "$shell"

var (
	// commands
	commands = []*ishell.Cmd{
		&FeedCmd,
		&PingCmd,
		&PortsCmd,
	}
)

// New creates a new shell.
func New(ctx context.Context, conf *env.Config) *Shell {
	s := &Shell{
		Shell:   ishell.New(),
		Config:  conf,
		Opener:  serialport.Opener,
		Context: ctx,
	}
	s.Shell.Set(shellKey, s)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	s.Shell.NotFound(func(c *ishell.Context) {
		s.failed = true
		c.Println(control.MsgInvalid)
	})
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Print implements control.Printer.
func (s *Shell) Print(line string) {
	s.Shell.Println(line)
}

// ReadLine implements control.Console, there is no operator input.
func (s *Shell) ReadLine() (string, error) {
	return "", io.EOF
}

// Connect initializes the link unless it is already online.
func (s *Shell) Connect() error {
	if s.Loop != nil {
		return nil
	}
	if err := s.Config.Validate(); err != nil {
		s.Print(err.Error())
		return err
	}
	session, err := control.Connect(s.Context, s.Opener, s.Config.LinkConfig(), s)
	if err != nil {
		return err
	}
	s.Loop = control.NewLoop(session, s)
	return nil
}

// Disconnect shuts the link down if connected.
func (s *Shell) Disconnect() error {
	if s.Loop == nil {
		return nil
	}
	err := s.Loop.Shutdown(nil)
	s.Loop = nil
	return err
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context, l *control.Loop)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		if s.failed {
			return
		}
		if err := s.Connect(); err != nil {
			s.failed = true
			return
		}
		fn(c, s.Loop)
	}
}

// DoCommand executes a protocol command over the connected link.
// A fatal error shuts the link down.
func DoCommand(c *ishell.Context, l *control.Loop, cmd control.Command) {
	s := ShellFrom(c)
	if err := l.Execute(s.Context, cmd); err != nil {
		s.failed = true
		s.Loop = nil
		l.Shutdown(err)
	}
}

// Run processes each argument as a command and disconnects.
// It returns false if any command failed.
func (s *Shell) Run(args ...string) bool {
	defer s.Shell.Close()
	for _, arg := range args {
		if s.failed {
			break
		}
		if err := s.Shell.Process(arg); err != nil {
			s.failed = true
			s.Print(fmt.Sprintf("%s: %v", arg, err))
		}
	}
	if err := s.Disconnect(); err != nil {
		s.failed = true
	}
	return !s.failed
}

var (
	// FeedCmd triggers a feed and waits for the confirmation.
	FeedCmd = ishell.Cmd{
		Name:    "feed",
		Aliases: []string{"f", "F"},
		Help:    "trigger a feed and wait for completion",
		Func: MustBeConnected(func(c *ishell.Context, l *control.Loop) {
			DoCommand(c, l, control.CommandFeed)
		}),
	}

	// PingCmd checks the feeder responds.
	PingCmd = ishell.Cmd{
		Name:    "ping",
		Aliases: []string{"h", "H"},
		Help:    "check the feeder responds",
		Func: MustBeConnected(func(c *ishell.Context, l *control.Loop) {
			DoCommand(c, l, control.CommandPing)
		}),
	}

	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "list serial ports",
		Func: func(c *ishell.Context) {
			ports, err := serialport.ListPorts()
			if err != nil {
				ShellFrom(c).failed = true
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				c.Println(serialport.FormatPort(port))
			}
		},
	}
)
