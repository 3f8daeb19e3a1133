package levels

import (
	"strings"

	"github.com/vovakirdan/jellystone/internal/core"
)

// isBackground reports symbols that are walkable filler in strict mode.
func isBackground(ch rune) bool {
	return ch == SymbolEmpty || ch == ' ' || ch == '-' || ch == '_'
}

// ParseRows builds a layout from text rows. Rows may be shorter than the grid
// (trailing cells are background). Unrecognised symbols are background unless
// opts.Strict is set.
func ParseRows(index int, name string, rows []string, opts Options) (*Layout, error) {
	b := newBuilder(opts)

	for row, line := range rows {
		col := 0
		for _, ch := range line {
			p := core.P(row, col)
			col++

			switch ch {
			case SymbolTree:
				b.tree(p)
			case SymbolMountain:
				b.mountain(p)
			case SymbolBasket:
				b.basket(p)
			case SymbolPatroller:
				b.patroller(p, core.Horizontal)
			case SymbolPatrollerV:
				b.patroller(p, core.Vertical)
			case SymbolPlayer:
				b.setPlayer(p)
			default:
				if !isBackground(ch) {
					b.warn(ErrUnknownSymbol, "symbol %q at %v", ch, p)
				}
			}
		}
	}

	return b.build(index, name)
}

// SplitRows splits raw file contents into rows, dropping carriage returns and
// trailing blank lines.
func SplitRows(data []byte) []string {
	rows := strings.Split(strings.ReplaceAll(string(data), "\r", ""), "\n")
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// Render writes a layout back into text rows, the inverse of ParseRows for
// well-formed levels.
func Render(l *Layout) []string {
	rows := l.Grid.Rows()
	cols := l.Grid.Cols()
	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = []rune(strings.Repeat(string(SymbolEmpty), cols))
	}

	set := func(p core.Position, ch rune) {
		if p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols {
			cells[p.Row][p.Col] = ch
		}
	}
	for _, p := range l.Grid.Trees() {
		set(p, SymbolTree)
	}
	for _, p := range l.Grid.Mountains() {
		set(p, SymbolMountain)
	}
	for _, p := range l.Baskets.Positions() {
		set(p, SymbolBasket)
	}
	for _, pt := range l.Patrollers {
		if pt.Axis == core.Vertical {
			set(pt.Pos, SymbolPatrollerV)
		} else {
			set(pt.Pos, SymbolPatroller)
		}
	}
	if l.HasStart {
		set(l.Start, SymbolPlayer)
	}

	out := make([]string, rows)
	for r := range cells {
		out[r] = string(cells[r])
	}
	return out
}
