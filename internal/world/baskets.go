package world

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/jellystone/internal/core"
)

// Baskets is the shrinking set of collectibles of the current level.
type Baskets struct {
	set mapset.Set[core.Position]
}

// NewBaskets creates a basket set holding the given positions.
func NewBaskets(ps ...core.Position) *Baskets {
	b := &Baskets{set: mapset.New[core.Position]()}
	for _, p := range ps {
		b.set.Put(p)
	}
	return b
}

// Add places a basket at p.
func (b *Baskets) Add(p core.Position) {
	b.set.Put(p)
}

// Has reports whether a basket sits at p.
func (b *Baskets) Has(p core.Position) bool {
	return b.set.Has(p)
}

// Remove drops the basket at p without reporting anything.
func (b *Baskets) Remove(p core.Position) {
	b.set.Remove(p)
}

// Take removes the basket at p and reports whether there was one.
func (b *Baskets) Take(p core.Position) bool {
	if !b.set.Has(p) {
		return false
	}
	b.set.Remove(p)
	return true
}

// Len returns the number of remaining baskets.
func (b *Baskets) Len() int {
	return b.set.Size()
}

// Empty reports whether all baskets were collected.
func (b *Baskets) Empty() bool {
	return b.set.Size() == 0
}

// Positions returns the basket cells in row-major order.
func (b *Baskets) Positions() []core.Position {
	return sortedPositions(b.set)
}
