package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/jellystone/internal/session"
)

// Scoreboard layout constants
const (
	tableMinHeight = 5
	maxScores      = 10
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Back}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "h", "q"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ScoreboardModel shows the high-score table inside the game screen.
type ScoreboardModel struct {
	scores []session.HighScore
	err    error
	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	width  int
	height int
}

// NewScoreboardModel creates an empty scoreboard sized for the terminal.
func NewScoreboardModel(width, height int) ScoreboardModel {
	m := ScoreboardModel{
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	return m
}

func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Name", Width: 16},
		{Title: "Score", Width: 7},
		{Title: "Level", Width: 6},
		{Title: "Time", Width: 7},
		{Title: "Date", Width: 13},
	}

	height := m.height - 8 // Leave room for title, help and margins
	if height < tableMinHeight {
		height = tableMinHeight
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// SetScores replaces the table contents.
func (m *ScoreboardModel) SetScores(scores []session.HighScore, err error) {
	m.scores = scores
	m.err = err
	m.table.SetRows(ScoreRows(scores))
	m.table.GotoTop()
}

// ScoreRows formats high scores as table rows, ranked in order.
func ScoreRows(scores []session.HighScore) []table.Row {
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			s.Name,
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Level),
			formatElapsed(s.ElapsedSecs),
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Update handles messages for the scoreboard. The second result is true when
// the user asked to leave.
func (m ScoreboardModel) Update(msg tea.Msg) (ScoreboardModel, bool, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) {
			return m, true, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(ScoreRows(m.scores))
		m.help.Width = msg.Width
		return m, false, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, false, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("HIGH SCORES"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("scores unavailable: " + m.err.Error()))
	case len(m.scores) == 0:
		b.WriteString(labelStyle.Render("No scores yet. Go grab some baskets!"))
	default:
		b.WriteString(m.table.View())
	}

	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(m.help.View(m.keys)))
	return b.String()
}
