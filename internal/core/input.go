package core

// Action represents a decoded player intent, abstracted from physical key presses.
// The platform maps keys to actions; the engine only ever sees the intents.
type Action int

const (
	ActionNone      Action = iota
	ActionLeft             // Shift one column left
	ActionRight            // Shift one column right
	ActionRotate           // Rotate clockwise
	ActionSoftDrop         // Soft drop held
	ActionHardDrop         // Drop and lock
	ActionHold             // Swap with the hold slot
	ActionPause            // Pause/unpause
	ActionRestart          // Restart after game over
	ActionBack             // Back to menu
	ActionQuit             // Exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRotate:
		return "Rotate"
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionHardDrop:
		return "HardDrop"
	case ActionHold:
		return "Hold"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction returns the horizontal direction of a move action: -1, +1, or 0.
func (a Action) Direction() int {
	switch a {
	case ActionLeft:
		return -1
	case ActionRight:
		return 1
	default:
		return 0
	}
}
