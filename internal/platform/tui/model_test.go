package tui

import (
	"testing"
	"testing/fstest"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/jellystone/internal/levels"
	"github.com/vovakirdan/jellystone/internal/scheduler"
	"github.com/vovakirdan/jellystone/internal/session"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	fsys := fstest.MapFS{
		"level1.txt": &fstest.MapFile{Data: []byte("B....\n..Y..\n")},
	}
	s, err := session.New(session.Config{
		Source:    levels.NewFSSource(fsys, "test", levels.DefaultOptions()),
		Generator: levels.NewGenerator(levels.DefaultGenParams(), 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	r := session.NewRunner(s, scheduler.New(time.Hour, time.Hour), nil)
	return NewModel(r, Options{Width: 80, Height: 40, Player: "yogi"})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelResetDialog(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, runeKey("r"))
	if m.mode != modeConfirmReset {
		t.Fatalf("expected reset confirmation, got mode %d", m.mode)
	}
	m = update(t, m, runeKey("n"))
	if m.mode != modePlaying {
		t.Errorf("cancel should return to play, got mode %d", m.mode)
	}

	m = update(t, m, runeKey("r"))
	next, cmd := m.Update(runeKey("y"))
	m = next.(Model)
	if m.mode != modePlaying || cmd == nil {
		t.Error("confirming should return to play and issue the reset")
	}
}

func TestModelQuitDialog(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, runeKey("q"))
	if m.mode != modeConfirmQuit {
		t.Fatalf("expected quit confirmation, got mode %d", m.mode)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modePlaying {
		t.Errorf("esc should cancel the quit, got mode %d", m.mode)
	}

	m = update(t, m, runeKey("q"))
	m = update(t, m, runeKey("y"))
	if !m.quitting {
		t.Error("confirming should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestModelGameOverPrompt(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, UpdateMsg{
		Snapshot: session.Snapshot{State: session.StateGameOver, Score: 5, Level: 2},
		Events:   []session.Event{{Kind: session.EventGameOver}},
	})
	if m.mode != modeNamePrompt {
		t.Fatalf("game over should open the name prompt, got mode %d", m.mode)
	}
	if m.input.Value() != "yogi" {
		t.Errorf("name should be prefilled, got %q", m.input.Value())
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !m.submitting || cmd == nil {
		t.Fatal("enter should submit the score")
	}

	// The runner publishes the reset game before replying.
	m = update(t, m, UpdateMsg{Snapshot: session.Snapshot{State: session.StatePlaying, Level: 1}})
	m = update(t, m, scoreSubmittedMsg{})
	if m.mode != modePlaying || m.submitting {
		t.Errorf("expected play to resume, got mode %d submitting %v", m.mode, m.submitting)
	}
}

func TestModelStatusExpires(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, UpdateMsg{
		Snapshot: session.Snapshot{State: session.StatePlaying, Lives: 2},
		Events:   []session.Event{{Kind: session.EventLifeLost, Lives: 2}},
	})
	if m.status != "Caught by a ranger! 2 lives left." {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = update(t, m, statusExpiredMsg{id: m.statusID - 1})
	if m.status == "" {
		t.Error("stale expiry should not clear the status")
	}
	m = update(t, m, statusExpiredMsg{id: m.statusID})
	if m.status != "" {
		t.Error("current expiry should clear the status")
	}
}

func TestModelScoresView(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(runeKey("h"))
	m = next.(Model)
	if m.mode != modeScores || cmd == nil {
		t.Fatal("h should open the scoreboard and load scores")
	}

	m = update(t, m, scoresLoadedMsg{scores: []session.HighScore{{Name: "boo", Score: 9}}})
	if len(m.scoreboard.scores) != 1 {
		t.Error("scores should be loaded into the table")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modePlaying {
		t.Errorf("esc should close the scoreboard, got mode %d", m.mode)
	}
}

func TestEventStatus(t *testing.T) {
	tests := []struct {
		ev       session.Event
		expected string
	}{
		{session.Event{Kind: session.EventLevelComplete, Level: 3}, "Level 3 cleared!"},
		{session.Event{Kind: session.EventLifeLost, Lives: 1}, "Caught by a ranger! Last life."},
		{session.Event{Kind: session.EventWarning, Message: "level 4 broken"}, "level 4 broken"},
		{session.Event{Kind: session.EventBasketCollected}, ""},
	}
	for _, tc := range tests {
		if got := eventStatus(tc.ev); got != tc.expected {
			t.Errorf("eventStatus(%v) = %q, expected %q", tc.ev.Kind, got, tc.expected)
		}
	}
}
