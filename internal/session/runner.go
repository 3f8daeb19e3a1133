package session

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/scheduler"
)

// Message is a command for the runner's loop.
type Message interface {
	isMessage()
}

// MoveMsg asks to move the player.
type MoveMsg struct {
	Dir core.Direction
}

// ResetMsg asks for a fresh game. Reply, when set, receives the result.
type ResetMsg struct {
	Reply chan<- error
}

// SubmitScoreMsg saves the final score after game over and resets.
type SubmitScoreMsg struct {
	Name  string
	Reply chan<- error
}

// ExitMsg stops the runner.
type ExitMsg struct{}

func (MoveMsg) isMessage()        {}
func (ResetMsg) isMessage()       {}
func (SubmitScoreMsg) isMessage() {}
func (ExitMsg) isMessage()        {}

// Update is published after every step that changed the session.
type Update struct {
	Snapshot Snapshot `json:"snapshot" msgpack:"snapshot"`
	Events   []Event  `json:"events,omitempty" msgpack:"events,omitempty"`
}

// Runner owns a Session. Player commands and scheduler ticks are handled one
// at a time by a single goroutine, and the resulting snapshots fan out to
// subscribers.
type Runner struct {
	session *Session
	sched   *scheduler.Scheduler
	logger  *log.Logger

	msgs  chan Message
	ticks chan scheduler.Tick
	done  chan struct{}

	mu      sync.RWMutex
	subs    map[int]*Subscription
	nextSub int
	stopped bool
	last    Snapshot
}

// NewRunner wraps a session and its scheduler.
func NewRunner(s *Session, sched *scheduler.Scheduler, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		session: s,
		sched:   sched,
		logger:  logger,
		msgs:    make(chan Message, 64),
		ticks:   make(chan scheduler.Tick),
		done:    make(chan struct{}),
		subs:    make(map[int]*Subscription),
		last:    s.Snapshot(),
	}
}

// Run starts the game and processes messages until ctx is cancelled or an
// ExitMsg arrives. Subscriptions are closed when Run returns.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	defer r.closeSubscriptions()

	if err := r.session.Start(ctx); err != nil {
		r.publish()
		return err
	}
	r.publish()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go r.sched.Run(ctx, r.ticks)
	r.sched.RestartClock()

	for {
		select {
		case <-ctx.Done():
			return nil
		case tick := <-r.ticks:
			r.handleTick(tick)
		case msg := <-r.msgs:
			if _, ok := msg.(ExitMsg); ok {
				r.logger.Debug("runner exit requested")
				return nil
			}
			r.handleMessage(ctx, msg)
		}
	}
}

// Send queues a message. It drops the message if the runner has stopped.
func (r *Runner) Send(msg Message) {
	select {
	case r.msgs <- msg:
	case <-r.done:
	}
}

// Move queues a player move.
func (r *Runner) Move(dir core.Direction) {
	r.Send(MoveMsg{Dir: dir})
}

// Reset starts a new game and waits for the result.
func (r *Runner) Reset(ctx context.Context) error {
	reply := make(chan error, 1)
	return r.call(ctx, ResetMsg{Reply: reply}, reply)
}

// SubmitScore saves the final score and waits for the result.
func (r *Runner) SubmitScore(ctx context.Context, name string) error {
	reply := make(chan error, 1)
	return r.call(ctx, SubmitScoreMsg{Name: name, Reply: reply}, reply)
}

// Exit stops the runner.
func (r *Runner) Exit() {
	r.Send(ExitMsg{})
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// TopScores reads the high-score table. The store is safe for concurrent use,
// so this bypasses the loop.
func (r *Runner) TopScores(ctx context.Context, limit int) ([]HighScore, error) {
	return r.session.TopScores(ctx, limit)
}

// Snapshot returns the most recently published snapshot.
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

func (r *Runner) call(ctx context.Context, msg Message, reply <-chan error) error {
	select {
	case r.msgs <- msg:
	case <-r.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-r.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) handleTick(tick scheduler.Tick) {
	before := r.session.Version()
	switch tick {
	case scheduler.ClockTick:
		r.session.OnClockTick()
	case scheduler.PatrolTick:
		r.session.OnPatrolTick()
	}
	if r.session.Version() != before {
		r.publish()
	}
}

func (r *Runner) handleMessage(ctx context.Context, msg Message) {
	before := r.session.Version()
	var (
		err error
		ch  chan<- error
	)
	switch m := msg.(type) {
	case MoveMsg:
		r.session.AttemptMove(ctx, m.Dir)
	case ResetMsg:
		err, ch = r.session.Reset(ctx), m.Reply
	case SubmitScoreMsg:
		err, ch = r.session.FinishGame(ctx, m.Name), m.Reply
	}
	if r.session.Version() != before {
		r.publish()
	}
	// Reply after publishing so callers see the new snapshot.
	if ch != nil {
		ch <- err
	}
}

// publish drains session events and fans the update out. A new level
// realigns the clock so its first second is a full second.
func (r *Runner) publish() {
	u := Update{Snapshot: r.session.Snapshot(), Events: r.session.DrainEvents()}
	for _, e := range u.Events {
		if e.Kind == EventLevelLoaded {
			r.sched.RestartClock()
		}
	}

	r.mu.Lock()
	r.last = u.Snapshot
	subs := make([]*Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	r.mu.Unlock()

	for _, sub := range subs {
		sub.send(u)
	}
}

// Subscribe registers a new update listener. The current snapshot is
// delivered first.
func (r *Runner) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 64
	}
	sub := &Subscription{
		runner:  r,
		updates: make(chan Update, buffer),
		done:    make(chan struct{}),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	sub.updates <- Update{Snapshot: r.last}
	if r.stopped {
		sub.closeUpdates()
		return sub
	}
	sub.id = r.nextSub
	r.nextSub++
	r.subs[sub.id] = sub
	return sub
}

func (r *Runner) closeSubscriptions() {
	r.mu.Lock()
	subs := r.subs
	r.subs = make(map[int]*Subscription)
	r.stopped = true
	r.mu.Unlock()
	for _, sub := range subs {
		sub.closeUpdates()
	}
}

// Subscription receives runner updates. Slow readers lose the oldest
// buffered update rather than stalling the game.
type Subscription struct {
	id      int
	runner  *Runner
	updates chan Update

	mu        sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
	closed    bool
}

// Updates returns the update channel. It is closed when the runner stops.
func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

// Close stops delivery. Safe to call multiple times.
func (s *Subscription) Close() {
	s.runner.mu.Lock()
	delete(s.runner.subs, s.id)
	s.runner.mu.Unlock()
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *Subscription) send(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.updates <- u:
		return
	default:
	}
	// Buffer full: drop the oldest, then retry once.
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- u:
	default:
	}
}

func (s *Subscription) closeUpdates() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.updates)
	}
}
