package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// TimeSource provides the current time.
type TimeSource interface {
	Time() time.Time
}

// Clock is a TimeSource which can also block for a while.
// The protocol code measures deadlines and settle delays through it
// so tests can run without a wall clock.
type Clock interface {
	TimeSource
	Sleep(time.Duration)
}

type systemClock struct{}

func (systemClock) Time() time.Time       { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the Clock backed by package time.
var SystemClock Clock = systemClock{}
