package levels

import (
	"errors"
	"testing"

	"github.com/vovakirdan/jellystone/internal/core"
)

func TestParseRowsSymbols(t *testing.T) {
	rows := []string{
		"O.M",
		"B?R",
		"V.Y",
	}
	l, err := ParseRows(1, "test", rows, Options{Rows: 3, Cols: 3})
	if err != nil {
		t.Fatalf("ParseRows failed: %v", err)
	}

	if !l.Grid.IsTree(core.P(0, 0)) {
		t.Error("expected tree at (0,0)")
	}
	if !l.Grid.IsMountain(core.P(0, 2)) {
		t.Error("expected mountain at (0,2)")
	}
	if !l.Baskets.Has(core.P(1, 0)) || l.Baskets.Len() != 1 {
		t.Errorf("expected single basket at (1,0), got %v", l.Baskets.Positions())
	}
	if len(l.Patrollers) != 2 {
		t.Fatalf("expected 2 patrollers, got %d", len(l.Patrollers))
	}
	if l.Patrollers[0].Pos != core.P(1, 2) || l.Patrollers[0].Axis != core.Horizontal {
		t.Errorf("unexpected first patroller %+v", l.Patrollers[0])
	}
	if l.Patrollers[1].Pos != core.P(2, 0) || l.Patrollers[1].Axis != core.Vertical {
		t.Errorf("unexpected second patroller %+v", l.Patrollers[1])
	}
	if !l.HasStart || l.Start != core.P(2, 2) {
		t.Errorf("expected start (2,2), got %v (has=%v)", l.Start, l.HasStart)
	}
	if !l.Grid.IsWalkable(core.P(1, 1)) {
		t.Error("unknown symbol should be background")
	}
}

func TestParseRowsShortRows(t *testing.T) {
	l, err := ParseRows(1, "short", []string{"B", "", "..Y"}, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseRows failed: %v", err)
	}
	if l.Grid.Rows() != 13 || l.Grid.Cols() != 13 {
		t.Errorf("grid should stay 13x13, got %dx%d", l.Grid.Rows(), l.Grid.Cols())
	}
	if !l.Grid.IsWalkable(core.P(0, 12)) {
		t.Error("trailing cells should be background")
	}
	if l.Start != core.P(2, 2) {
		t.Errorf("expected start (2,2), got %v", l.Start)
	}
}

func TestParseRowsNoPlayer(t *testing.T) {
	l, err := ParseRows(1, "empty", []string{"B.."}, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseRows failed: %v", err)
	}
	if l.HasStart {
		t.Error("level without Y should not have a start")
	}
}

func TestParseRowsDuplicatePlayer(t *testing.T) {
	l, err := ParseRows(1, "dup", []string{"Y.B", "..Y"}, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseRows failed: %v", err)
	}
	if l.Start != core.P(1, 2) {
		t.Errorf("last Y should win, got %v", l.Start)
	}
	if len(l.Warnings) == 0 {
		t.Error("expected a warning for the duplicate player")
	}

	if _, err := ParseRows(1, "dup", []string{"Y.B", "..Y"}, Options{Rows: 13, Cols: 13, Strict: true}); !errors.Is(err, ErrOverlap) {
		t.Errorf("strict mode should reject duplicate players, got %v", err)
	}
}

func TestParseRowsStrict(t *testing.T) {
	strict := Options{Rows: 3, Cols: 3, Strict: true}

	tests := []struct {
		name    string
		rows    []string
		wantErr error
	}{
		{"clean", []string{"O.B", "- Y", "..."}, nil},
		{"unknown symbol", []string{"O?B", "..Y"}, ErrUnknownSymbol},
		{"row too long", []string{"B..O", "..Y"}, ErrOutOfBounds},
		{"too many rows", []string{"B", "", "Y", "O"}, ErrOutOfBounds},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRows(1, tc.name, tc.rows, strict)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseRowsLenientDropsOutOfBounds(t *testing.T) {
	l, err := ParseRows(1, "wide", []string{"..B.B"}, Options{Rows: 3, Cols: 3})
	if err != nil {
		t.Fatalf("ParseRows failed: %v", err)
	}
	if l.Baskets.Len() != 1 {
		t.Errorf("expected 1 in-bounds basket, got %d", l.Baskets.Len())
	}
	if len(l.Warnings) == 0 {
		t.Error("expected a warning for the dropped cell")
	}
}

func TestSplitRows(t *testing.T) {
	rows := SplitRows([]byte("ab\r\ncd\n\n"))
	if len(rows) != 2 || rows[0] != "ab" || rows[1] != "cd" {
		t.Errorf("SplitRows = %q", rows)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	rows := []string{
		"O...B",
		".M.R.",
		"..Y..",
		"V....",
		"....B",
	}
	opts := Options{Rows: 5, Cols: 5}
	l, err := ParseRows(1, "rt", rows, opts)
	if err != nil {
		t.Fatalf("ParseRows failed: %v", err)
	}

	out := Render(l)
	for i := range rows {
		if out[i] != rows[i] {
			t.Errorf("row %d: got %q, expected %q", i, out[i], rows[i])
		}
	}
}
