package commando

// SignalKind identifies a discrete event emitted by the engine.
type SignalKind int

const (
	SignalGameStarted SignalKind = iota + 1
	SignalShotFired
	SignalPlayerDied
	SignalPlayerWon
	SignalReset
)

// String returns the signal name as stored in the session journal.
func (k SignalKind) String() string {
	switch k {
	case SignalGameStarted:
		return "started"
	case SignalShotFired:
		return "shot"
	case SignalPlayerDied:
		return "died"
	case SignalPlayerWon:
		return "won"
	case SignalReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Signal is an engine event. Epoch, Score and Survived describe the game at
// the moment the signal was raised.
type Signal struct {
	Kind     SignalKind
	Epoch    uint64
	Score    int
	Survived int // Seconds survived so far
}

// SignalSink receives engine signals. Emit is called outside the engine
// lock, so a sink may call back into the engine.
type SignalSink interface {
	Emit(Signal)
}

// SinkFunc adapts a function to SignalSink.
type SinkFunc func(Signal)

// Emit calls f(sig).
func (f SinkFunc) Emit(sig Signal) { f(sig) }
