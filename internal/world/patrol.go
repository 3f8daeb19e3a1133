package world

import "github.com/vovakirdan/jellystone/internal/core"

// NextPatrol applies one patrol step and returns the new patroller state.
//
// The patroller looks one cell ahead along its axis in the current direction.
// If that cell is walkable it moves there; otherwise it flips direction and
// stays put for this step.
func NextPatrol(p Patroller, g *Grid) Patroller {
	step := 1
	if !p.Forward {
		step = -1
	}

	next := p.Pos
	if p.Axis == core.Vertical {
		next.Row += step
	} else {
		next.Col += step
	}

	if g.IsWalkable(next) {
		p.Pos = next
		return p
	}
	p.Forward = !p.Forward
	return p
}

// Step advances the patroller in place.
func (p *Patroller) Step(g *Grid) {
	*p = NextPatrol(*p, g)
}

// StepAll advances every patroller against the shared terrain.
func StepAll(ps []Patroller, g *Grid) {
	for i := range ps {
		ps[i].Step(g)
	}
}
