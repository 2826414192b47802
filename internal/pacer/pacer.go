// Package pacer keeps consecutive calls at least one interval apart.
//
// The sleep happens after each call and is shortened by however long the call
// itself took, so the start-to-start gap is never below the interval and the
// pacer never sleeps a negative duration.
package pacer

import (
	"context"
	"time"
)

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Pacer spaces out calls made through Do.
type Pacer struct {
	interval time.Duration
	clock    Clock
}

// Option configures a Pacer.
type Option func(*Pacer)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(p *Pacer) {
		p.clock = c
	}
}

// New creates a Pacer with the given minimum interval.
func New(interval time.Duration, opts ...Option) *Pacer {
	p := &Pacer{
		interval: interval,
		clock:    realClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ForRate creates a Pacer allowing requestsPerMinute calls per minute.
func ForRate(requestsPerMinute int, opts ...Option) *Pacer {
	return New(IntervalFor(requestsPerMinute), opts...)
}

// IntervalFor converts a per-minute budget into a minimum interval.
// A non-positive budget means no pacing.
func IntervalFor(requestsPerMinute int) time.Duration {
	if requestsPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(requestsPerMinute)
}

// Interval returns the minimum start-to-start gap.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Do runs fn, then sleeps for whatever remains of the interval.
// An error from fn is returned immediately, without sleeping.
func (p *Pacer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	start := p.clock.Now()
	if err := fn(ctx); err != nil {
		return err
	}
	return p.clock.Sleep(ctx, p.Remaining(p.clock.Now().Sub(start)))
}

// Remaining returns max(0, interval - elapsed).
func (p *Pacer) Remaining(elapsed time.Duration) time.Duration {
	if wait := p.interval - elapsed; wait > 0 {
		return wait
	}
	return 0
}
