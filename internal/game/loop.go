package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// LoopConfig configures a Loop.
type LoopConfig struct {
	State    *State
	Interval time.Duration
}

// Validate checks the config
func (c *LoopConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.State == nil {
		vb.RequiredField("State")
	}
	if c.Interval <= 0 {
		vb.Field("Interval", "must be positive")
	}
	return vb.Build()
}

type job struct {
	fn   func(*State) error
	done chan error
}

// Loop is the single goroutine that mutates the game state. It ticks the
// state on an interval and runs closures submitted with Do between ticks.
type Loop struct {
	state    *State
	interval time.Duration
	jobs     chan job
	stopped  chan struct{}
}

// NewLoop creates a loop. Call Run to start it.
func NewLoop(cfg *LoopConfig) (*Loop, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid game loop config")
	}
	return &Loop{
		state:    cfg.State,
		interval: cfg.Interval,
		jobs:     make(chan job),
		stopped:  make(chan struct{}),
	}, nil
}

// Run ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "game loop started", "interval", l.interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "game loop stopping")
			return ctx.Err()

		case <-ticker.C:
			l.state.Tick(ctx)

		case j := <-l.jobs:
			j.done <- l.run(j.fn)
		}
	}
}

func (l *Loop) run(fn func(*State) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("game loop job panicked", "panic", r)
			err = errors.Internalf("game loop job panicked: %v", r)
		}
	}()
	return fn(l.state)
}

// Do runs fn on the loop goroutine and returns its error. Returns
// Unavailable once the loop has stopped.
func (l *Loop) Do(ctx context.Context, fn func(*State) error) error {
	j := job{fn: fn, done: make(chan error, 1)}

	select {
	case l.jobs <- j:
	case <-l.stopped:
		return errors.Unavailable("game loop is not running")
	case <-ctx.Done():
		return errors.WrapWithCode(ctx.Err(), errors.CodeUnavailable, "game loop is busy")
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return errors.WrapWithCode(ctx.Err(), errors.CodeUnavailable, "game loop did not finish in time")
	}
}
