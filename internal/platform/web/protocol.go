package web

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-commando/internal/games/commando"
)

// Client message types.
const (
	MsgFire    = "fire"    // Fire at (x, y) in playfield units
	MsgReset   = "reset"   // Back to idle
	MsgWelcome = "welcome" // Show the welcome screen
	MsgDismiss = "dismiss" // Hide the welcome screen
)

// Server message types.
const (
	MsgHello  = "hello"
	MsgState  = "state"
	MsgSignal = "signal"
	MsgError  = "error"
)

var errUnknownMessage = errors.New("unknown message type")

// ClientMessage is a command sent by the browser.
type ClientMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// ServerMessage is everything the server pushes to the browser.
// Exactly one payload field is set, according to Type.
type ServerMessage struct {
	Type    string             `json:"type"`
	Session string             `json:"session,omitempty"`
	State   *commando.Snapshot `json:"state,omitempty"`
	Signal  *SignalMessage     `json:"signal,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// SignalMessage mirrors commando.Signal on the wire.
type SignalMessage struct {
	Kind     string `json:"kind"`
	Epoch    uint64 `json:"epoch"`
	Score    int    `json:"score"`
	Survived int    `json:"survived"`
}

func stateMessage(snap commando.Snapshot) ServerMessage {
	return ServerMessage{Type: MsgState, State: &snap}
}

func signalMessage(sig commando.Signal) ServerMessage {
	return ServerMessage{Type: MsgSignal, Signal: &SignalMessage{
		Kind:     sig.Kind.String(),
		Epoch:    sig.Epoch,
		Score:    sig.Score,
		Survived: sig.Survived,
	}}
}

func errorMessage(err error) ServerMessage {
	return ServerMessage{Type: MsgError, Error: err.Error()}
}

// apply runs a client command against the engine.
// Rejected shots are not errors; the next state message shows the outcome.
func apply(e *commando.Engine, msg ClientMessage) error {
	switch msg.Type {
	case MsgFire:
		e.Fire(msg.X, msg.Y)
	case MsgReset:
		e.Reset()
	case MsgWelcome:
		e.StartWelcome()
	case MsgDismiss:
		e.DismissWelcome()
	default:
		return fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
	}
	return nil
}
