package world

import "github.com/vovakirdan/jellystone/internal/core"

// Player is the avatar controlled by the user.
type Player struct {
	Pos   core.Position
	Start core.Position // respawn point for the active level

	// AdvancedSinceHit gates patrol movement after a life loss.
	AdvancedSinceHit bool
}

// NewPlayer places a player at start.
func NewPlayer(start core.Position) Player {
	return Player{Pos: start, Start: start}
}

// Respawn puts the player back on its starting cell and re-arms the patrol gate.
func (p *Player) Respawn() {
	p.Pos = p.Start
	p.AdvancedSinceHit = false
}

// Patroller is an adversary sweeping back and forth along a fixed axis.
type Patroller struct {
	Pos     core.Position `json:"pos" msgpack:"pos"`
	Axis    core.Axis     `json:"axis" msgpack:"axis"`
	Forward bool          `json:"forward" msgpack:"forward"`
}

// NewPatroller creates a patroller heading forward along axis.
func NewPatroller(pos core.Position, axis core.Axis) Patroller {
	return Patroller{Pos: pos, Axis: axis, Forward: true}
}
