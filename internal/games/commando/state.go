package commando

import (
	"fmt"
	"strings"
)

// Phase is the game's top-level state. Exactly one holds at any time.
type Phase int

const (
	PhaseIdle    Phase = iota // Waiting for the first shot
	PhasePlaying              // Simulation running
	PhaseDead                 // An enemy reached the cannon
	PhaseWon                  // Survived the full countdown
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseDead:
		return "dead"
	case PhaseWon:
		return "won"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name for JSON snapshots.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name written by MarshalText.
func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseIdle, PhasePlaying, PhaseDead, PhaseWon} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("commando: unknown phase %q", text)
}

// Terminal reports whether the phase ends a round.
func (p Phase) Terminal() bool {
	return p == PhaseDead || p == PhaseWon
}

// Tick is a set of periodic triggers that became due together.
type Tick uint32

// Triggers are processed in declaration order, so a death detected by the
// frame integrator wins over a countdown expiring in the same batch.
const (
	TickFrame Tick = 1 << iota
	TickCollision
	TickSpawn
	TickRamp
	TickCountdown

	TickAll = TickFrame | TickCollision | TickSpawn | TickRamp | TickCountdown
)

var tickOrder = []Tick{TickFrame, TickCollision, TickSpawn, TickRamp, TickCountdown}

var tickNames = []string{"frame", "collision", "spawn", "ramp", "countdown"}

// String returns the trigger names joined with '+'.
func (t Tick) String() string {
	var parts []string
	for i, k := range tickOrder {
		if t&k != 0 {
			parts = append(parts, tickNames[i])
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}
