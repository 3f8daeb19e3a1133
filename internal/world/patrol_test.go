package world

import (
	"testing"

	"github.com/vovakirdan/jellystone/internal/core"
)

func TestNextPatrolMovesForward(t *testing.T) {
	g := NewGrid(13, 13)

	h := NextPatrol(NewPatroller(core.P(6, 9), core.Horizontal), g)
	if h.Pos != core.P(6, 10) || !h.Forward {
		t.Errorf("horizontal step = %+v, expected (6,10) forward", h)
	}

	v := NextPatrol(NewPatroller(core.P(6, 9), core.Vertical), g)
	if v.Pos != core.P(7, 9) || !v.Forward {
		t.Errorf("vertical step = %+v, expected (7,9) forward", v)
	}
}

func TestNextPatrolReversesAtEdge(t *testing.T) {
	g := NewGrid(13, 13)
	p := NewPatroller(core.P(4, 12), core.Horizontal)

	// Reversal consumes the tick
	p = NextPatrol(p, g)
	if p.Pos != core.P(4, 12) {
		t.Errorf("patroller should not move on reversal, got %v", p.Pos)
	}
	if p.Forward {
		t.Error("patroller should flip to backward at the right edge")
	}

	p = NextPatrol(p, g)
	if p.Pos != core.P(4, 11) {
		t.Errorf("patroller should step back to column 11, got %v", p.Pos)
	}
}

func TestNextPatrolReversesAtObstacle(t *testing.T) {
	g := NewGrid(13, 13)
	g.AddMountain(core.P(3, 5))
	p := Patroller{Pos: core.P(4, 5), Axis: core.Vertical, Forward: false}

	p = NextPatrol(p, g)
	if p.Pos != core.P(4, 5) || !p.Forward {
		t.Errorf("vertical patroller should bounce off the mountain, got %+v", p)
	}
	p = NextPatrol(p, g)
	if p.Pos != core.P(5, 5) {
		t.Errorf("expected (5,5) after bounce, got %v", p.Pos)
	}
}

func TestNextPatrolStaysOnAxis(t *testing.T) {
	g := NewGrid(7, 7)
	g.AddTree(core.P(3, 0))
	p := NewPatroller(core.P(3, 2), core.Horizontal)

	for i := 0; i < 50; i++ {
		p = NextPatrol(p, g)
		if p.Pos.Row != 3 {
			t.Fatalf("horizontal patroller left its row at step %d: %v", i, p.Pos)
		}
		if !g.IsWalkable(p.Pos) {
			t.Fatalf("patroller entered a blocked cell at step %d: %v", i, p.Pos)
		}
	}
}

func TestNextPatrolBoxedIn(t *testing.T) {
	g := NewGrid(3, 3)
	g.AddTree(core.P(1, 0))
	g.AddTree(core.P(1, 2))
	p := NewPatroller(core.P(1, 1), core.Horizontal)

	for i := 0; i < 4; i++ {
		p = NextPatrol(p, g)
		if p.Pos != core.P(1, 1) {
			t.Fatalf("boxed patroller should never move, got %v", p.Pos)
		}
	}
	if !p.Forward {
		t.Error("after an even number of flips the direction is forward again")
	}
}

func TestStepAll(t *testing.T) {
	g := NewGrid(5, 5)
	ps := []Patroller{
		NewPatroller(core.P(0, 0), core.Horizontal),
		NewPatroller(core.P(0, 4), core.Vertical),
	}
	StepAll(ps, g)
	if ps[0].Pos != core.P(0, 1) || ps[1].Pos != core.P(1, 4) {
		t.Errorf("StepAll moved to %v and %v", ps[0].Pos, ps[1].Pos)
	}
}

func TestPlayerRespawn(t *testing.T) {
	p := NewPlayer(core.P(1, 1))
	p.Pos = core.P(5, 5)
	p.AdvancedSinceHit = true

	p.Respawn()
	if p.Pos != core.P(1, 1) || p.AdvancedSinceHit {
		t.Errorf("Respawn left player at %v advanced=%v", p.Pos, p.AdvancedSinceHit)
	}
}
