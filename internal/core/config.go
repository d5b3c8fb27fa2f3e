package core

// RuntimeConfig contains configuration passed to a game session at startup.
// The platform fills it from CLI flags and the terminal size.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frame ticks per second (default 60)
	Seed     int64 // RNG seed, 0 means derive one at session start
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// FrameRate returns the tick rate, falling back to 60 for non-positive values.
func (c RuntimeConfig) FrameRate() int {
	if c.TickRate <= 0 {
		return 60
	}
	return c.TickRate
}
