package session

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/levels"
	"github.com/vovakirdan/jellystone/internal/scheduler"
)

func startRunner(t *testing.T, clock, patrol time.Duration) (*Runner, context.CancelFunc, <-chan error) {
	t.Helper()
	s, err := New(Config{
		Source:    mapSource(levels.DefaultOptions(), basketLevel, secondLevel),
		Generator: levels.NewGenerator(levels.DefaultGenParams(), 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(s, scheduler.New(clock, patrol), nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()
	return r, cancel, errc
}

// waitFor reads updates until cond holds.
func waitFor(t *testing.T, sub *Subscription, cond func(Update) bool) Update {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case u, ok := <-sub.Updates():
			if !ok {
				t.Fatal("subscription closed")
			}
			if cond(u) {
				return u
			}
		case <-deadline:
			t.Fatal("timed out waiting for update")
		}
	}
}

func TestRunnerMoveAndComplete(t *testing.T) {
	r, cancel, _ := startRunner(t, time.Hour, time.Hour)
	defer cancel()

	sub := r.Subscribe(16)
	defer sub.Close()
	waitFor(t, sub, func(u Update) bool { return u.Snapshot.Level == 1 })

	r.Move(core.Right)
	u := waitFor(t, sub, func(u Update) bool { return u.Snapshot.Level == 2 })
	if u.Snapshot.Score != 1 {
		t.Errorf("expected score 1, got %d", u.Snapshot.Score)
	}
	if r.Snapshot().Level != 2 {
		t.Error("Snapshot() should reflect the last update")
	}
}

func TestRunnerClockTicks(t *testing.T) {
	r, cancel, _ := startRunner(t, 10*time.Millisecond, time.Hour)
	defer cancel()

	sub := r.Subscribe(16)
	defer sub.Close()
	waitFor(t, sub, func(u Update) bool { return u.Snapshot.Elapsed >= 2 })
}

func TestRunnerResetAndExit(t *testing.T) {
	r, cancel, errc := startRunner(t, time.Hour, time.Hour)
	defer cancel()

	sub := r.Subscribe(16)
	waitFor(t, sub, func(u Update) bool { return u.Snapshot.Level == 1 })

	r.Move(core.Up)
	ctx := context.Background()
	if err := r.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if p := r.Snapshot().Player; p != core.P(6, 6) {
		t.Errorf("reset should restore the start, got %v", p)
	}
	if err := r.SubmitScore(ctx, "early"); err == nil {
		t.Error("expected error when submitting mid-game")
	}

	r.Exit()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not exit")
	}

	// Drain until the channel closes.
	for range sub.Updates() {
	}
	if err := r.Reset(ctx); err == nil {
		t.Error("Reset after exit should fail")
	}
}

func TestSubscriptionDropsOldest(t *testing.T) {
	sub := &Subscription{updates: make(chan Update, 2), done: make(chan struct{})}
	for i := 1; i <= 3; i++ {
		sub.send(Update{Snapshot: Snapshot{Score: i}})
	}
	first := <-sub.Updates()
	second := <-sub.Updates()
	if first.Snapshot.Score != 2 || second.Snapshot.Score != 3 {
		t.Errorf("expected scores 2,3 got %d,%d", first.Snapshot.Score, second.Snapshot.Score)
	}
}
