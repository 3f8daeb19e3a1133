// Package core provides fundamental types shared by the simulation and the
// presentation layers. It contains no external dependencies (especially no
// Bubble Tea) to keep game logic pure and testable.
package core

import "fmt"

// Position is a 0-indexed cell on the grid.
type Position struct {
	Row int `json:"row" msgpack:"row" yaml:"row"`
	Col int `json:"col" msgpack:"col" yaml:"col"`
}

// P creates a position from row and column.
func P(row, col int) Position {
	return Position{Row: row, Col: col}
}

// Add returns the position shifted by the given deltas.
func (p Position) Add(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Step returns the neighbouring position in direction d.
func (p Position) Step(d Direction) Position {
	dr, dc := d.Delta()
	return p.Add(dr, dc)
}

// Neighbors returns the four orthogonal neighbours, in Up, Down, Left, Right order.
// Neighbours may be out of bounds.
func (p Position) Neighbors() [4]Position {
	return [4]Position{p.Step(Up), p.Step(Down), p.Step(Left), p.Step(Right)}
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Less orders positions row-major. Used to produce stable snapshots.
func (p Position) Less(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

// Direction is one of the four player move directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Delta returns the (row, col) unit delta for the direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	default:
		return 0, 0
	}
}

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection maps a name ("up", "down", "left", "right") to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	default:
		return 0, false
	}
}

// Axis is the fixed sweep axis of a patroller.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// MarshalText encodes the axis by name, so JSON and YAML carry "horizontal"/"vertical".
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an axis name.
func (a *Axis) UnmarshalText(text []byte) error {
	switch string(text) {
	case "horizontal", "h", "":
		*a = Horizontal
	case "vertical", "v":
		*a = Vertical
	default:
		return fmt.Errorf("core: unknown axis %q", string(text))
	}
	return nil
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
