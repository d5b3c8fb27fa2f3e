package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionAimUp             // W, Up arrow - move the aim cursor up
	ActionAimDown           // S, Down arrow - move the aim cursor down
	ActionFire              // Space - fire at the aim cursor
	ActionConfirm           // Enter - dismiss the welcome screen
	ActionRestart           // R - reset to the welcome-less idle state
	ActionScreenshot        // Ctrl+S - save the rendered screen
	ActionQuit              // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionAimUp:
		return "AimUp"
	case ActionAimDown:
		return "AimDown"
	case ActionFire:
		return "Fire"
	case ActionConfirm:
		return "Confirm"
	case ActionRestart:
		return "Restart"
	case ActionScreenshot:
		return "Screenshot"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
