package framework

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Runner.Wait when stop is requested twice.
var ErrForcedExit = errors.New("forced exit")

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// Runner runs multiple Runnables and collect errors.
type Runner struct {
	Context context.Context
	Runners []Runnable

	errCh  chan error
	exitCh chan struct{}
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner with a specified context.
func NewRunnerWith(ctx context.Context) *Runner {
	return &Runner{
		Context: ctx,
		errCh:   make(chan error, 1),
		exitCh:  make(chan struct{}),
	}
}

// HandleSignals handles CtrlC and SIGTERM from the system.
// The first signal cancels the context, the second one makes Wait
// return ErrForcedExit without waiting further.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return r.handleSignals(sigCh)
}

func (r *Runner) handleSignals(sigCh <-chan os.Signal) *Runner {
	ctx, cancel := context.WithCancel(r.Context)
	r.Context = ctx
	go func() {
		sig := <-sigCh
		glog.Infof("stop requested: %v", sig)
		cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.exitCh)
	}()
	return r
}

// Go spawns a Runnable with default context.
func (r *Runner) Go(runners ...Runnable) *Runner {
	return r.GoWith(r.Context, runners...)
}

// GoWith spawns a Runnable with a specified context.
func (r *Runner) GoWith(ctx context.Context, runners ...Runnable) *Runner {
	for _, runner := range runners {
		var name string
		if named, ok := runner.(Named); ok {
			name = named.Name()
		} else {
			name = strconv.Itoa(len(r.Runners))
		}
		r.Runners = append(r.Runners, runner)
		glog.V(4).Infof("start Runner[%s]", name)
		go func(runner Runnable, name string) {
			err := runner.Run(ctx)
			glog.V(4).Infof("Runner[%s] stopped: %v", name, err)
			r.errCh <- err
		}(runner, name)
	}
	return r
}

// Wait waits until all Runnables stops and aggregate errors.
// context.Canceled is not treated as an error.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for range r.Runners {
		select {
		case <-r.exitCh:
			return ErrForcedExit
		case err := <-r.errCh:
			if !errors.Is(err, context.Canceled) {
				errs.Add(err)
			}
		}
	}
	return errs.Aggregate()
}

// RunWithContextCancel runs a func with doesn't accept a context.
// onCancel is called only when the context is canceled, and is expected
// to make fn return. The result of fn is always awaited.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		if err := <-errCh; err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// RunWithContextCloser is a convinient wrapper for RunWithContextCancel and
// ensures closer.Close is called exactly once, either on cancel or on exit of fn.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	once := NewOnceCloser(closer)
	err := RunWithContextCancel(ctx, func() { once.Close() }, fn)
	once.Close()
	return err
}

// OnceCloser wraps an io.Closer so Close takes effect only once.
// Later calls return the result of the first one.
type OnceCloser struct {
	closer io.Closer
	once   sync.Once
	err    error
	closed bool
	lock   sync.Mutex
}

// NewOnceCloser wraps closer.
func NewOnceCloser(closer io.Closer) *OnceCloser {
	return &OnceCloser{closer: closer}
}

// Close implements io.Closer.
func (c *OnceCloser) Close() error {
	c.once.Do(func() {
		err := c.closer.Close()
		c.lock.Lock()
		c.err, c.closed = err, true
		c.lock.Unlock()
	})
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.err
}

// Closed indicates Close has been called.
func (c *OnceCloser) Closed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.closed
}
