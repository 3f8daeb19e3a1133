package levels

import (
	"fmt"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/world"
)

type patrollerSpawn struct {
	pos  core.Position
	axis core.Axis
}

// builder collects raw placements from any format and resolves them into a
// Layout. Precedence on shared cells is tree > mountain > basket > patroller,
// regardless of the order placements were made in.
type builder struct {
	opts       Options
	trees      []core.Position
	mountains  []core.Position
	baskets    []core.Position
	patrollers []patrollerSpawn
	player     *core.Position
	warnings   []string
	err        error
}

func newBuilder(opts Options) *builder {
	return &builder{opts: opts}
}

// warn records a lenient-mode warning, or fails the build in strict mode.
func (b *builder) warn(cause error, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if b.opts.Strict {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %s", cause, msg)
		}
		return
	}
	b.warnings = append(b.warnings, msg)
}

// inBounds filters cells outside the configured grid.
func (b *builder) inBounds(p core.Position) bool {
	if p.Row >= 0 && p.Row < b.opts.Rows && p.Col >= 0 && p.Col < b.opts.Cols {
		return true
	}
	b.warn(ErrOutOfBounds, "cell %v outside %dx%d grid", p, b.opts.Rows, b.opts.Cols)
	return false
}

func (b *builder) tree(p core.Position) {
	if b.inBounds(p) {
		b.trees = append(b.trees, p)
	}
}

func (b *builder) mountain(p core.Position) {
	if b.inBounds(p) {
		b.mountains = append(b.mountains, p)
	}
}

func (b *builder) basket(p core.Position) {
	if b.inBounds(p) {
		b.baskets = append(b.baskets, p)
	}
}

func (b *builder) patroller(p core.Position, axis core.Axis) {
	if b.inBounds(p) {
		b.patrollers = append(b.patrollers, patrollerSpawn{pos: p, axis: axis})
	}
}

func (b *builder) setPlayer(p core.Position) {
	if !b.inBounds(p) {
		return
	}
	if b.player != nil && *b.player != p {
		b.warn(ErrOverlap, "player placed twice, %v replaces %v", p, *b.player)
	}
	b.player = &p
}

func (b *builder) build(index int, name string) (*Layout, error) {
	g := world.NewGrid(b.opts.Rows, b.opts.Cols)
	for _, p := range b.trees {
		g.AddTree(p)
	}
	for _, p := range b.mountains {
		if g.IsTree(p) {
			b.warn(ErrOverlap, "mountain at %v overlaps a tree", p)
			continue
		}
		g.AddMountain(p)
	}

	baskets := world.NewBaskets()
	for _, p := range b.baskets {
		if g.IsObstacle(p) {
			b.warn(ErrOverlap, "basket at %v overlaps terrain", p)
			continue
		}
		baskets.Add(p)
	}

	patrollers := make([]world.Patroller, 0, len(b.patrollers))
	for _, s := range b.patrollers {
		if g.IsObstacle(s.pos) {
			b.warn(ErrOverlap, "patroller at %v overlaps terrain", s.pos)
			continue
		}
		patrollers = append(patrollers, world.NewPatroller(s.pos, s.axis))
	}

	layout := &Layout{
		Index:      index,
		Name:       name,
		Grid:       g,
		Baskets:    baskets,
		Patrollers: patrollers,
	}
	if b.player != nil {
		if g.IsObstacle(*b.player) {
			b.warn(ErrOverlap, "player start %v overlaps terrain", *b.player)
		}
		layout.Start = *b.player
		layout.HasStart = true
	}

	if b.err != nil {
		return nil, b.err
	}
	if baskets.Empty() {
		b.warnings = append(b.warnings, "level has no baskets")
	}
	layout.Warnings = b.warnings
	return layout, nil
}
