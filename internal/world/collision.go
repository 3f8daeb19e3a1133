package world

import "github.com/vovakirdan/jellystone/internal/core"

// IsAdjacent is true iff a and b differ by exactly 1 in exactly one axis
// (4-neighbour adjacency, diagonals excluded).
func IsAdjacent(a, b core.Position) bool {
	dr := core.Abs(a.Row - b.Row)
	dc := core.Abs(a.Col - b.Col)
	return dr+dc == 1
}

// Touching reports contact between two entities: adjacent or sharing a cell.
func Touching(a, b core.Position) bool {
	return a == b || IsAdjacent(a, b)
}

// AnyTouching reports whether at least one patroller is in contact with p.
// It answers once regardless of how many patrollers touch p.
func AnyTouching(p core.Position, patrollers []Patroller) bool {
	for _, pt := range patrollers {
		if Touching(p, pt.Pos) {
			return true
		}
	}
	return false
}
