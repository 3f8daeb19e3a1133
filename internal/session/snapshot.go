package session

import (
	"fmt"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/world"
)

// State is the session state machine position.
type State int

const (
	StatePlaying State = iota
	StateLevelTransition
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateLevelTransition:
		return "level_transition"
	case StateGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "playing":
		*s = StatePlaying
	case "level_transition":
		*s = StateLevelTransition
	case "game_over":
		*s = StateGameOver
	default:
		return fmt.Errorf("session: unknown state %q", string(text))
	}
	return nil
}

// Snapshot is an immutable copy of everything needed to draw the game.
type Snapshot struct {
	Rows       int               `json:"rows" msgpack:"rows"`
	Cols       int               `json:"cols" msgpack:"cols"`
	Trees      []core.Position   `json:"trees" msgpack:"trees"`
	Mountains  []core.Position   `json:"mountains" msgpack:"mountains"`
	Baskets    []core.Position   `json:"baskets" msgpack:"baskets"`
	Patrollers []world.Patroller `json:"patrollers" msgpack:"patrollers"`
	Player     core.Position     `json:"player" msgpack:"player"`
	Start      core.Position     `json:"start" msgpack:"start"`

	Score     int    `json:"score" msgpack:"score"`
	Lives     int    `json:"lives" msgpack:"lives"`
	Elapsed   int    `json:"elapsed" msgpack:"elapsed"`
	Level     int    `json:"level" msgpack:"level"`
	LevelName string `json:"level_name" msgpack:"level_name"`
	Generated bool   `json:"generated" msgpack:"generated"`
	State     State  `json:"state" msgpack:"state"`

	// PatrolPaused is true while patrollers are frozen after a hit or
	// before the first move.
	PatrolPaused bool `json:"patrol_paused" msgpack:"patrol_paused"`
}

// Cell kinds reported by Snapshot.At.
const (
	CellEmpty = iota
	CellTree
	CellMountain
	CellBasket
	CellPatroller
	CellPlayer
)

// At returns what occupies p, with the player drawn over patrollers and
// patrollers over baskets.
func (s *Snapshot) At(p core.Position) int {
	if s.Player == p {
		return CellPlayer
	}
	for _, pt := range s.Patrollers {
		if pt.Pos == p {
			return CellPatroller
		}
	}
	for _, b := range s.Baskets {
		if b == p {
			return CellBasket
		}
	}
	for _, t := range s.Trees {
		if t == p {
			return CellTree
		}
	}
	for _, m := range s.Mountains {
		if m == p {
			return CellMountain
		}
	}
	return CellEmpty
}
