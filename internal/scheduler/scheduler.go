// Package scheduler drives a game session with two independent periodic
// triggers: the elapsed-time clock and the patrol step.
//
// The scheduler never calls into the session. It posts Tick values to a
// channel that the session's single owner drains in order with player
// commands, so no tick can observe a half-built level.
package scheduler

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Default periods.
const (
	DefaultClockInterval  = time.Second
	DefaultPatrolInterval = 500 * time.Millisecond
)

// Tick identifies which trigger fired.
type Tick int

const (
	ClockTick Tick = iota
	PatrolTick
)

func (t Tick) String() string {
	if t == PatrolTick {
		return "patrol"
	}
	return "clock"
}

// Scheduler owns the two tickers.
type Scheduler struct {
	clock   time.Duration
	patrol  time.Duration
	restart chan struct{}
	logger  *log.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a scheduler. Non-positive intervals fall back to the defaults.
func New(clock, patrol time.Duration, opts ...Option) *Scheduler {
	if clock <= 0 {
		clock = DefaultClockInterval
	}
	if patrol <= 0 {
		patrol = DefaultPatrolInterval
	}
	s := &Scheduler{
		clock:   clock,
		patrol:  patrol,
		restart: make(chan struct{}, 1),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Intervals returns the clock and patrol periods.
func (s *Scheduler) Intervals() (clock, patrol time.Duration) {
	return s.clock, s.patrol
}

// RestartClock realigns the clock ticker so the next clock tick arrives one
// full period from now. Safe to call from any goroutine; repeated calls
// before the loop notices collapse into one.
func (s *Scheduler) RestartClock() {
	select {
	case s.restart <- struct{}{}:
	default:
	}
}

// Run posts ticks to out until ctx is cancelled. Run blocks; call it in a
// goroutine. A slow consumer delays ticks rather than dropping them silently:
// while a send is pending, further firings of the same ticker coalesce.
func (s *Scheduler) Run(ctx context.Context, out chan<- Tick) {
	clock := time.NewTicker(s.clock)
	defer clock.Stop()
	patrol := time.NewTicker(s.patrol)
	defer patrol.Stop()

	s.logger.Debug("scheduler started", "clock", s.clock, "patrol", s.patrol)

	for {
		var tick Tick
		select {
		case <-ctx.Done():
			s.logger.Debug("scheduler stopped")
			return
		case <-s.restart:
			clock.Reset(s.clock)
			continue
		case <-clock.C:
			tick = ClockTick
		case <-patrol.C:
			tick = PatrolTick
		}

		select {
		case out <- tick:
		case <-ctx.Done():
			s.logger.Debug("scheduler stopped")
			return
		}
	}
}
