package core

// Action represents a semantic game action, abstracted from physical key presses.
// The presentation layer maps keys to actions; the session consumes commands
// built from them.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionReset          // R - request a reset (confirmed by the UI)
	ActionScores         // H - show the high-score table
	ActionConfirm        // Y, Enter
	ActionCancel         // N, Escape
	ActionQuit           // Q, Ctrl+C - request exit (confirmed by the UI)
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionReset:
		return "Reset"
	case ActionScores:
		return "Scores"
	case ActionConfirm:
		return "Confirm"
	case ActionCancel:
		return "Cancel"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction returns the move direction for a movement action.
// The second result is false for non-movement actions.
func (a Action) Direction() (Direction, bool) {
	switch a {
	case ActionUp:
		return Up, true
	case ActionDown:
		return Down, true
	case ActionLeft:
		return Left, true
	case ActionRight:
		return Right, true
	default:
		return 0, false
	}
}
