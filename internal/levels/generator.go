package levels

import (
	"context"
	"fmt"
	"math/rand"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/telemetry"
	"github.com/vovakirdan/jellystone/internal/world"
)

// GenParams sets the grid size and how many of each entity a generated level
// holds.
type GenParams struct {
	Rows       int `yaml:"rows"`
	Cols       int `yaml:"cols"`
	Baskets    int `yaml:"baskets"`
	Trees      int `yaml:"trees"`
	Mountains  int `yaml:"mountains"`
	Patrollers int `yaml:"patrollers"`
}

// DefaultGenParams places four of each kind on a 13x13 grid.
func DefaultGenParams() GenParams {
	return GenParams{Rows: 13, Cols: 13, Baskets: 4, Trees: 4, Mountains: 4, Patrollers: 4}
}

// Generator builds random levels. It is not safe for concurrent use.
type Generator struct {
	params GenParams
	rng    *rand.Rand
}

// NewGenerator creates a generator. The same seed yields the same sequence
// of levels.
func NewGenerator(params GenParams, seed int64) *Generator {
	return &Generator{
		params: params,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Params returns the generator parameters.
func (g *Generator) Params() GenParams {
	return g.params
}

// Generate places baskets, trees, mountains and patrollers on distinct cells
// around the player. Patrollers additionally avoid the cells next to the
// player. Cells are drawn from a single shuffle, so generation always ends.
func (g *Generator) Generate(ctx context.Context, index int, player core.Position) (*Layout, error) {
	_, span := telemetry.Tracer("levels").Start(ctx, "levels.generate")
	defer span.End()

	p := g.params
	span.SetAttributes(
		attribute.Int("level.index", index),
		attribute.Int("grid.rows", p.Rows),
		attribute.Int("grid.cols", p.Cols),
	)

	free := make([]core.Position, 0, p.Rows*p.Cols)
	for r := 0; r < p.Rows; r++ {
		for c := 0; c < p.Cols; c++ {
			if pos := core.P(r, c); pos != player {
				free = append(free, pos)
			}
		}
	}

	need := p.Baskets + p.Trees + p.Mountains + p.Patrollers
	if need > len(free) {
		span.RecordError(ErrGridTooSmall)
		return nil, fmt.Errorf("levels: need %d cells, have %d: %w", need, len(free), ErrGridTooSmall)
	}

	order := g.rng.Perm(len(free))
	next := 0
	take := func() core.Position {
		pos := free[order[next]]
		next++
		return pos
	}

	grid := world.NewGrid(p.Rows, p.Cols)
	baskets := world.NewBaskets()
	for i := 0; i < p.Baskets; i++ {
		baskets.Add(take())
	}
	for i := 0; i < p.Trees; i++ {
		grid.AddTree(take())
	}
	for i := 0; i < p.Mountains; i++ {
		grid.AddMountain(take())
	}

	patrollers := make([]world.Patroller, 0, p.Patrollers)
	for next < len(order) && len(patrollers) < p.Patrollers {
		pos := take()
		if world.Touching(pos, player) {
			continue
		}
		axis := core.Horizontal
		if g.rng.Intn(2) == 1 {
			axis = core.Vertical
		}
		patrollers = append(patrollers, world.NewPatroller(pos, axis))
	}
	if len(patrollers) < p.Patrollers {
		span.RecordError(ErrGridTooSmall)
		return nil, fmt.Errorf("levels: placed %d of %d patrollers: %w", len(patrollers), p.Patrollers, ErrGridTooSmall)
	}

	span.SetAttributes(attribute.Int("level.cells_drawn", next))

	return &Layout{
		Index:      index,
		Name:       fmt.Sprintf("Wild %d", index),
		Grid:       grid,
		Baskets:    baskets,
		Patrollers: patrollers,
		Start:      player,
		HasStart:   true,
		Generated:  true,
	}, nil
}
