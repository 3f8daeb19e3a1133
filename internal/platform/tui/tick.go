// Package tui provides the Bubble Tea front end for jellystone: the board,
// HUD, dialogs, high-score table and the SSH server that hosts them.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/jellystone/internal/session"
)

// statusTTL is how long a status line stays visible.
const statusTTL = 3 * time.Second

// UpdateMsg carries a runner update into the Bubble Tea loop.
type UpdateMsg session.Update

// feedClosedMsg is sent when the runner has stopped.
type feedClosedMsg struct{}

// statusExpiredMsg clears a status line if it is still the current one.
type statusExpiredMsg struct{ id int }

// resetDoneMsg reports the result of a confirmed reset.
type resetDoneMsg struct{ err error }

// scoreSubmittedMsg reports the result of saving the final score.
type scoreSubmittedMsg struct{ err error }

// scoresLoadedMsg carries the high-score table.
type scoresLoadedMsg struct {
	scores []session.HighScore
	err    error
}

// waitForUpdate blocks on the subscription until the next update arrives.
func waitForUpdate(sub *session.Subscription) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-sub.Updates()
		if !ok {
			return feedClosedMsg{}
		}
		return UpdateMsg(u)
	}
}

func expireStatus(id int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{id: id}
	})
}

func resetCmd(r *session.Runner) tea.Cmd {
	return func() tea.Msg {
		return resetDoneMsg{err: r.Reset(context.Background())}
	}
}

func submitScoreCmd(r *session.Runner, name string) tea.Cmd {
	return func() tea.Msg {
		return scoreSubmittedMsg{err: r.SubmitScore(context.Background(), name)}
	}
}

func loadScoresCmd(r *session.Runner, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		scores, err := r.TopScores(ctx, limit)
		return scoresLoadedMsg{scores: scores, err: err}
	}
}
