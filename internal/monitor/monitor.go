// Package monitor re-runs the advanced copy check on an interval.
package monitor

import (
	"context"
	"time"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/health"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/logging"
)

// Runner performs one check.
type Runner interface {
	Run(ctx context.Context) *health.Result
}

// RunnerFunc adapts a function to a Runner.
type RunnerFunc func(ctx context.Context) *health.Result

// Run calls f(ctx).
func (f RunnerFunc) Run(ctx context.Context) *health.Result {
	return f(ctx)
}

// Observer receives every result.
type Observer func(*health.Result)

// Monitor periodically checks an array.
type Monitor struct {
	interval  time.Duration
	runner    Runner
	observers []Observer
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithObserver registers fn to receive each result. Observers are called
// in registration order from the monitor goroutine.
func WithObserver(fn Observer) Option {
	return func(m *Monitor) {
		m.observers = append(m.observers, fn)
	}
}

// New creates a new Monitor.
func New(interval time.Duration, runner Runner, opts ...Option) *Monitor {
	m := &Monitor{
		interval: interval,
		runner:   runner,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the monitoring loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logging.Debug("starting advanced copy monitor", "interval", m.interval)

	// Run an immediate check, then loop on interval.
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("advanced copy monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check runs one probe and hands the result to the observers.
func (m *Monitor) check(ctx context.Context) *health.Result {
	if ctx.Err() != nil {
		return nil
	}

	res := m.runner.Run(ctx)
	logging.Debug("check finished", "severity", res.Severity, "summary", res.Summary)

	for _, fn := range m.observers {
		fn(res)
	}
	return res
}
