package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	command "github.com/goliatone/go-command"
	"github.com/robfig/cron/v3"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Registrar matches the cron registration signature used by go-command
// registries.
type Registrar func(command.HandlerConfig, any) error

// Cron runs registered handlers on robfig/cron schedules.
type Cron struct {
	cron   *cron.Cron
	logger interfaces.Logger

	mu      sync.Mutex
	running bool
}

// Option customises Cron.
type Option func(*Cron)

// WithLogger sets the logger used for job failures.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Cron) {
		c.logger = logging.Ensure(logger)
	}
}

// NewCron returns a stopped scheduler.
func NewCron(opts ...Option) *Cron {
	c := &Cron{
		cron:   cron.New(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register schedules handler with cfg.Expression. handler may be a
// func() error, func(context.Context) error or func().
func (c *Cron) Register(cfg command.HandlerConfig, handler any) error {
	expr := strings.TrimSpace(cfg.Expression)
	if expr == "" {
		return errors.New("scheduler: cron expression is required")
	}
	run, err := adapt(handler)
	if err != nil {
		return err
	}

	_, err = c.cron.AddFunc(expr, func() {
		if err := run(); err != nil {
			c.logger.Error("scheduler.job.failed", "expression", expr, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid expression %q: %w", expr, err)
	}
	return nil
}

// Registrar exposes Register as a Registrar.
func (c *Cron) Registrar() Registrar {
	return c.Register
}

// Len returns the number of scheduled entries.
func (c *Cron) Len() int {
	return len(c.cron.Entries())
}

// Start runs the scheduler in its own goroutine. Calling Start twice is a
// no-op.
func (c *Cron) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.cron.Start()
	c.running = true
}

// Stop halts scheduling and waits for running jobs or ctx, whichever ends
// first.
func (c *Cron) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	done := c.cron.Stop()
	c.mu.Unlock()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func adapt(handler any) (func() error, error) {
	switch h := handler.(type) {
	case func() error:
		return h, nil
	case func(context.Context) error:
		return func() error { return h(context.Background()) }, nil
	case func():
		return func() error { h(); return nil }, nil
	case nil:
		return nil, errors.New("scheduler: handler is nil")
	default:
		return nil, fmt.Errorf("scheduler: unsupported handler type %T", handler)
	}
}
