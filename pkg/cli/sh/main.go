// Package sh is the entry of the feedctl program.
package sh

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/feedlink/pkg/console"
	"github.com/robotalks/feedlink/pkg/control"
	"github.com/robotalks/feedlink/pkg/env"
	fx "github.com/robotalks/feedlink/pkg/framework"
	"github.com/robotalks/feedlink/pkg/link"
	"github.com/robotalks/feedlink/pkg/serialport"
)

// Exit status.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Interactive connects the link and runs the command loop on the terminal.
func Interactive(ctx context.Context, conf *env.Config) int {
	if err := conf.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}
	con, err := console.New(control.Prompt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitError
	}
	defer con.Close()

	runner := fx.NewRunnerWith(ctx).HandleSignals()
	session, err := control.Connect(runner.Context, serialport.Opener, conf.LinkConfig(), con)
	if err != nil {
		return exitCode(err)
	}
	defer session.Close()

	loop := control.NewLoop(session, con)
	runner.Go(fx.NamedRun("control", fx.RunFunc(func(ctx context.Context) error {
		return fx.RunWithContextCloser(ctx, con, func() error {
			return loop.Serve(ctx)
		})
	})))
	if err = runner.Wait(); err != nil {
		glog.Errorf("control loop: %v", err)
		return ExitError
	}
	return ExitOK
}

var errCommandFailed = errors.New("command failed")

// OneShot runs the commands in args and exits.
func OneShot(ctx context.Context, conf *env.Config, args ...string) int {
	return runOneShot(fx.NewRunnerWith(ctx).HandleSignals(), func(ctx context.Context) bool {
		return New(ctx, conf).Run(args...)
	})
}

func runOneShot(runner *fx.Runner, run func(context.Context) bool) int {
	runner.Go(fx.NamedRun("shell", fx.RunFunc(func(ctx context.Context) error {
		if !run(ctx) {
			return errCommandFailed
		}
		return nil
	})))
	if err := runner.Wait(); err != nil {
		glog.V(1).Infof("one-shot: %v", err)
		if !errors.Is(err, fx.ErrForcedExit) && runner.Context.Err() != nil {
			return ExitOK
		}
		return ExitError
	}
	return ExitOK
}

func exitCode(err error) int {
	if errors.Is(err, link.ErrInterrupted) {
		return ExitOK
	}
	return ExitError
}

// Main is a helper to provide a single call in main.
func Main() {
	env.SetupFlags()
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [feed|ping|ports ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	var code int
	if args := flag.Args(); len(args) > 0 {
		code = OneShot(context.Background(), env.NewConfig(), args...)
	} else {
		code = Interactive(context.Background(), env.NewConfig())
	}
	glog.Flush()
	os.Exit(code)
}
