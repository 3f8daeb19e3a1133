// Package world holds the per-level terrain, the entities living on it and the
// pure movement and collision rules shared by the player and the patrollers.
package world

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/jellystone/internal/core"
)

// Grid is the static terrain of one level. Trees and mountains are impassable.
// A cell is in at most one of the two sets; the last Add wins.
type Grid struct {
	rows      int
	cols      int
	trees     mapset.Set[core.Position]
	mountains mapset.Set[core.Position]
}

// NewGrid creates an empty (fully walkable) grid of the given dimensions.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		rows:      rows,
		cols:      cols,
		trees:     mapset.New[core.Position](),
		mountains: mapset.New[core.Position](),
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// Cells returns rows*cols.
func (g *Grid) Cells() int {
	return g.rows * g.cols
}

// InBounds reports whether p lies within [0,rows)x[0,cols).
func (g *Grid) InBounds(p core.Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// AddTree marks p as a tree. Out-of-bounds cells are ignored.
func (g *Grid) AddTree(p core.Position) {
	if !g.InBounds(p) {
		return
	}
	g.mountains.Remove(p)
	g.trees.Put(p)
}

// AddMountain marks p as a mountain. Out-of-bounds cells are ignored.
func (g *Grid) AddMountain(p core.Position) {
	if !g.InBounds(p) {
		return
	}
	g.trees.Remove(p)
	g.mountains.Put(p)
}

// IsTree reports whether p holds a tree.
func (g *Grid) IsTree(p core.Position) bool {
	return g.trees.Has(p)
}

// IsMountain reports whether p holds a mountain.
func (g *Grid) IsMountain(p core.Position) bool {
	return g.mountains.Has(p)
}

// IsObstacle reports whether p holds any impassable terrain.
func (g *Grid) IsObstacle(p core.Position) bool {
	return g.trees.Has(p) || g.mountains.Has(p)
}

// IsWalkable is false outside the grid and on trees or mountains, true otherwise.
func (g *Grid) IsWalkable(p core.Position) bool {
	return g.InBounds(p) && !g.IsObstacle(p)
}

// Trees returns the tree cells in row-major order.
func (g *Grid) Trees() []core.Position {
	return sortedPositions(g.trees)
}

// Mountains returns the mountain cells in row-major order.
func (g *Grid) Mountains() []core.Position {
	return sortedPositions(g.mountains)
}

// ObstacleCount returns the number of impassable cells.
func (g *Grid) ObstacleCount() int {
	return g.trees.Size() + g.mountains.Size()
}

func sortedPositions(s mapset.Set[core.Position]) []core.Position {
	out := make([]core.Position, 0, s.Size())
	s.Each(func(p core.Position) {
		out = append(out, p)
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	return out
}
