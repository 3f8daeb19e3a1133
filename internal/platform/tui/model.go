package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/session"
)

// mode is the current screen of the game model.
type mode int

const (
	modePlaying mode = iota
	modeConfirmReset
	modeConfirmQuit
	modeNamePrompt
	modeScores
)

// Options tune the game model.
type Options struct {
	Width  int
	Height int
	// Player prefills the name prompt, e.g. with the SSH user.
	Player string
	// ScoreLimit is the number of rows in the high-score table.
	ScoreLimit int
}

// Model is the Bubble Tea model for one game session. It never mutates the
// session directly: moves and commands go through the runner, and the view
// is drawn from the latest published snapshot.
type Model struct {
	runner *session.Runner
	sub    *session.Subscription
	opts   Options

	keys       KeyMap
	help       help.Model
	input      textinput.Model
	scoreboard ScoreboardModel

	snap       session.Snapshot
	mode       mode
	prevMode   mode
	status     string
	statusID   int
	submitting bool
	width      int
	height     int
	quitting   bool
}

// NewModel creates a game model bound to a runner.
func NewModel(r *session.Runner, opts Options) Model {
	if opts.ScoreLimit <= 0 {
		opts.ScoreLimit = maxScores
	}

	ti := textinput.New()
	ti.Placeholder = session.AnonymousName
	ti.CharLimit = 24
	ti.Width = 24
	ti.SetValue(opts.Player)

	return Model{
		runner:     r,
		sub:        r.Subscribe(8),
		opts:       opts,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		input:      ti,
		scoreboard: NewScoreboardModel(opts.Width, opts.Height),
		snap:       r.Snapshot(),
		width:      opts.Width,
		height:     opts.Height,
	}
}

// Init starts listening for runner updates.
func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.sub)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		var cmd tea.Cmd
		m.scoreboard, _, cmd = m.scoreboard.Update(msg)
		return m, cmd

	case UpdateMsg:
		return m.handleUpdate(session.Update(msg))

	case feedClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case statusExpiredMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case resetDoneMsg:
		if msg.err != nil {
			return m, m.setStatus("reset failed: " + msg.err.Error())
		}
		return m, m.setStatus("New game!")

	case scoreSubmittedMsg:
		m.submitting = false
		m.input.Blur()
		if m.mode == modeNamePrompt && m.snap.State != session.StateGameOver {
			m.mode = modePlaying
		}
		if msg.err != nil {
			return m, m.setStatus("score not saved: " + msg.err.Error())
		}
		return m, nil

	case scoresLoadedMsg:
		m.scoreboard.SetScores(msg.scores, msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeNamePrompt {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleUpdate(u session.Update) (tea.Model, tea.Cmd) {
	m.snap = u.Snapshot
	cmds := []tea.Cmd{waitForUpdate(m.sub)}

	for _, ev := range u.Events {
		if text := eventStatus(ev); text != "" {
			cmds = append(cmds, m.setStatus(text))
		}
	}

	if m.snap.State == session.StateGameOver && !m.submitting &&
		m.mode != modeNamePrompt && m.mode != modeConfirmQuit {
		m.mode = modeNamePrompt
		cmds = append(cmds, m.input.Focus())
	}
	return m, tea.Batch(cmds...)
}

// eventStatus returns the status line for an event, or "" for events that
// the board already shows.
func eventStatus(ev session.Event) string {
	switch ev.Kind {
	case session.EventLevelComplete:
		return fmt.Sprintf("Level %d cleared!", ev.Level)
	case session.EventLifeLost:
		switch ev.Lives {
		case 1:
			return "Caught by a ranger! Last life."
		default:
			return fmt.Sprintf("Caught by a ranger! %d lives left.", ev.Lives)
		}
	case session.EventGameOver:
		return "Game over."
	case session.EventScoreSaved:
		return "Score saved."
	case session.EventWarning:
		return ev.Message
	}
	return ""
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.statusID++
	m.status = text
	return expireStatus(m.statusID)
}

// handleKey processes keyboard input for the current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.mode {
	case modeNamePrompt:
		return m.handleNameKey(msg)
	case modeScores:
		var (
			back bool
			cmd  tea.Cmd
		)
		m.scoreboard, back, cmd = m.scoreboard.Update(msg)
		if back {
			m.mode = m.prevMode
		}
		return m, cmd
	}

	action := m.keys.MapKey(msg)

	switch m.mode {
	case modeConfirmReset:
		switch action {
		case core.ActionConfirm:
			m.mode = modePlaying
			return m, resetCmd(m.runner)
		case core.ActionCancel, core.ActionReset:
			m.mode = modePlaying
		}
		return m, nil

	case modeConfirmQuit:
		switch action {
		case core.ActionConfirm, core.ActionQuit:
			return m.quit()
		case core.ActionCancel:
			m.mode = m.prevMode
			if m.mode == modeNamePrompt {
				return m, m.input.Focus()
			}
		}
		return m, nil
	}

	if dir, ok := action.Direction(); ok {
		m.runner.Move(dir)
		return m, nil
	}

	switch action {
	case core.ActionReset:
		m.mode = modeConfirmReset
	case core.ActionScores:
		m.prevMode = m.mode
		m.mode = modeScores
		return m, loadScoresCmd(m.runner, m.opts.ScoreLimit)
	case core.ActionQuit:
		m.prevMode = m.mode
		m.mode = modeConfirmQuit
	}
	return m, nil
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		m.submitting = true
		return m, submitScoreCmd(m.runner, strings.TrimSpace(m.input.Value()))
	case tea.KeyEsc:
		m.prevMode = m.mode
		m.mode = modeConfirmQuit
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.sub.Close()
	m.runner.Exit()
	return m, tea.Quit
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.mode == modeScores {
		return m.center(m.scoreboard.View())
	}

	parts := []string{RenderHUD(&m.snap), RenderBoard(&m.snap)}

	switch m.mode {
	case modeConfirmReset:
		parts = append(parts, RenderDialog("New game?", "Your progress will be lost. (y/n)"))
	case modeConfirmQuit:
		parts = append(parts, RenderDialog("Quit?", "Leave Jellystone? (y/n)"))
	case modeNamePrompt:
		body := lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("Final score %d on level %d.", m.snap.Score, m.snap.Level),
			"",
			"Your name:",
			m.input.View(),
		)
		if m.submitting {
			body += "\n" + labelStyle.Render("saving...")
		}
		parts = append(parts, RenderDialog("GAME OVER", body))
	default:
		parts = append(parts, m.statusLine(), labelStyle.Render(m.help.View(m.keys)))
	}

	return m.center(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) statusLine() string {
	switch {
	case m.status != "":
		return statusStyle.Render(m.status)
	case m.snap.State == session.StatePlaying && m.snap.PatrolPaused:
		return labelStyle.Render("The rangers are waiting for your move.")
	}
	return " "
}

func (m Model) center(s string) string {
	if m.width <= 0 || m.height <= 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

// Run plays one local game on the terminal. The runner must already be
// running; Run returns when the user quits or ctx is cancelled.
func Run(ctx context.Context, r *session.Runner, opts Options) error {
	p := tea.NewProgram(
		NewModel(r, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
