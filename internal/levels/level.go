// Package levels turns level descriptions into playable layouts.
//
// Predefined levels are addressed by a 1-based index and come from a Source
// (embedded files or a directory). Two file formats are supported: text rows of
// single-character symbols (levelN.txt) and YAML coordinate lists (levelN.yaml).
// Past the predefined count, a Generator produces random layouts.
package levels

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/world"
)

// Level symbols of the text format.
const (
	SymbolTree       = 'O'
	SymbolMountain   = 'M'
	SymbolBasket     = 'B'
	SymbolPatroller  = 'R' // horizontal patroller
	SymbolPatrollerV = 'V' // vertical patroller
	SymbolPlayer     = 'Y'
	SymbolEmpty      = '.'
)

var (
	// ErrLevelNotFound is returned when no file exists for a level index.
	ErrLevelNotFound = errors.New("level not found")
	// ErrUnknownSymbol is returned in strict mode for unrecognised symbols.
	ErrUnknownSymbol = errors.New("unknown level symbol")
	// ErrOverlap is returned in strict mode when two entities claim one cell.
	ErrOverlap = errors.New("overlapping level entities")
	// ErrOutOfBounds is returned in strict mode for cells outside the grid.
	ErrOutOfBounds = errors.New("level cell outside grid")
	// ErrNoBaskets marks a level that cannot be completed.
	ErrNoBaskets = errors.New("level has no baskets")
	// ErrGridTooSmall is returned by the generator when the grid cannot hold
	// the requested entities.
	ErrGridTooSmall = errors.New("grid too small for generated level")
)

// LevelLoadError reports a level that could not be read or parsed.
type LevelLoadError struct {
	Index  int
	Source string
	Err    error
}

func (e *LevelLoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("levels: cannot load level %d from %s: %v", e.Index, e.Source, e.Err)
	}
	return fmt.Sprintf("levels: cannot load level %d: %v", e.Index, e.Err)
}

func (e *LevelLoadError) Unwrap() error {
	return e.Err
}

// Options controls parsing.
type Options struct {
	Rows   int
	Cols   int
	Strict bool // reject unknown symbols, overlaps and out-of-grid cells
}

// DefaultOptions returns the 13x13 lenient options.
func DefaultOptions() Options {
	return Options{Rows: 13, Cols: 13}
}

// Layout is a fully populated level ready to be played.
type Layout struct {
	Index      int
	Name       string
	Grid       *world.Grid
	Baskets    *world.Baskets
	Patrollers []world.Patroller
	Start      core.Position
	HasStart   bool // false when the description placed no player
	Generated  bool
	Warnings   []string
}

// Counts summarises a layout for listings and telemetry.
type Counts struct {
	Trees      int
	Mountains  int
	Baskets    int
	Patrollers int
}

// Counts returns per-kind entity counts.
func (l *Layout) Counts() Counts {
	return Counts{
		Trees:      len(l.Grid.Trees()),
		Mountains:  len(l.Grid.Mountains()),
		Baskets:    l.Baskets.Len(),
		Patrollers: len(l.Patrollers),
	}
}
