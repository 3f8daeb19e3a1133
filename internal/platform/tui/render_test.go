package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/session"
	"github.com/vovakirdan/jellystone/internal/world"
)

func TestRenderBoard(t *testing.T) {
	snap := session.Snapshot{
		Rows:       2,
		Cols:       3,
		Trees:      []core.Position{core.P(0, 0)},
		Mountains:  []core.Position{core.P(0, 2)},
		Baskets:    []core.Position{core.P(1, 0)},
		Patrollers: []world.Patroller{world.NewPatroller(core.P(1, 2), core.Vertical)},
		Player:     core.P(1, 1),
	}

	out := RenderBoard(&snap)
	for _, glyph := range []string{"♣", "▲", "◆", "R", "Y", "·"} {
		if !strings.Contains(out, glyph) {
			t.Errorf("board should contain %q:\n%s", glyph, out)
		}
	}
}

func TestRenderHUD(t *testing.T) {
	snap := session.Snapshot{
		Score:     7,
		Lives:     2,
		Elapsed:   75,
		Level:     11,
		LevelName: "Wild 11",
		Generated: true,
	}

	out := RenderHUD(&snap)
	for _, want := range []string{"Wild 11 (wild)", "Score 7", "Time 1:15", "♥ ♥"} {
		if !strings.Contains(out, want) {
			t.Errorf("HUD should contain %q:\n%s", want, out)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		secs     int
		expected string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{60, "1:00"},
		{3599, "59:59"},
	}
	for _, tc := range tests {
		if got := formatElapsed(tc.secs); got != tc.expected {
			t.Errorf("formatElapsed(%d) = %q, expected %q", tc.secs, got, tc.expected)
		}
	}
}

func TestScoreRows(t *testing.T) {
	scores := []session.HighScore{
		{Name: "yogi", Score: 12, Level: 4, ElapsedSecs: 61, CreatedAt: time.Now()},
		{Name: "boo", Score: 3, Level: 1, ElapsedSecs: 5, CreatedAt: time.Now()},
	}

	rows := ScoreRows(scores)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "#1" || rows[0][1] != "yogi" || rows[0][2] != "12" || rows[0][4] != "1:01" {
		t.Errorf("unexpected first row %v", rows[0])
	}
	if rows[1][0] != "#2" {
		t.Errorf("expected rank #2, got %s", rows[1][0])
	}
}
