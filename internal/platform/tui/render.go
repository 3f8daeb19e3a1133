package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/session"
)

// cellGlyphs maps snapshot cell kinds to their two-column glyphs.
var cellGlyphs = map[int]string{
	session.CellEmpty:     " ·",
	session.CellTree:      " ♣",
	session.CellMountain:  " ▲",
	session.CellBasket:    " ◆",
	session.CellPatroller: " R",
	session.CellPlayer:    " Y",
}

// cellStyles maps snapshot cell kinds to lipgloss styles.
var cellStyles = map[int]lipgloss.Style{
	session.CellEmpty:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	session.CellTree:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	session.CellMountain:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	session.CellBasket:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	session.CellPatroller: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	session.CellPlayer:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
}

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	livesStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 3)
)

// RenderBoard draws the grid. Runs of the same cell kind share one styled
// segment to keep escape sequences down.
func RenderBoard(s *session.Snapshot) string {
	var sb strings.Builder
	sb.Grow(s.Rows * (s.Cols*2 + 1))

	for r := 0; r < s.Rows; r++ {
		if r > 0 {
			sb.WriteRune('\n')
		}

		c := 0
		for c < s.Cols {
			kind := s.At(core.P(r, c))
			var run strings.Builder
			for c < s.Cols && s.At(core.P(r, c)) == kind {
				run.WriteString(cellGlyphs[kind])
				c++
			}
			sb.WriteString(cellStyles[kind].Render(run.String()))
		}
	}
	return boardStyle.Render(sb.String())
}

// RenderHUD draws the counters above the board.
func RenderHUD(s *session.Snapshot) string {
	name := s.LevelName
	if name == "" {
		name = fmt.Sprintf("Level %d", s.Level)
	}
	if s.Generated {
		name += " (wild)"
	}

	hearts := strings.Repeat("♥ ", s.Lives)
	if hearts == "" {
		hearts = "-"
	}

	field := func(label, value string) string {
		return labelStyle.Render(label) + " " + valueStyle.Render(value)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Jellystone · "+name),
		strings.Join([]string{
			field("Level", fmt.Sprint(s.Level)),
			field("Score", fmt.Sprint(s.Score)),
			field("Time", formatElapsed(s.Elapsed)),
			labelStyle.Render("Lives") + " " + livesStyle.Render(strings.TrimSpace(hearts)),
		}, "   "),
	)
}

// formatElapsed renders seconds as m:ss.
func formatElapsed(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// RenderDialog draws a centred confirmation box.
func RenderDialog(title, body string) string {
	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(title),
		"",
		body,
	))
}
