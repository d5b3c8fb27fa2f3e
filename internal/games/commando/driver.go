package commando

import (
	"time"

	"github.com/vovakirdan/tui-commando/internal/clock"
	"github.com/vovakirdan/tui-commando/internal/config"
)

// Triggers returns one scheduler trigger per periodic process. fps sets the
// frame trigger; the rest come from the timing configuration.
func Triggers(cfg config.CommandoConfig, fps int) []clock.Trigger {
	if fps <= 0 {
		fps = 60
	}
	t := cfg.Timing
	return []clock.Trigger{
		{Name: "frame", Every: time.Second / time.Duration(fps), Mask: uint32(TickFrame)},
		{Name: "collision", Every: t.CollisionEvery, Mask: uint32(TickCollision)},
		{Name: "spawn", Every: t.SpawnEvery, Mask: uint32(TickSpawn)},
		{Name: "ramp", Every: t.RampEvery, Mask: uint32(TickRamp)},
		{Name: "countdown", Every: t.CountdownEvery, Mask: uint32(TickCountdown)},
	}
}

// Drive attaches a scheduler to the engine. A round's timers start with its
// first shot and stop when the round ends or the engine is reset; every
// round gets fresh timers. Signals carry the epoch they were raised in, so a
// reset delivered late never stops the timers of a round started after it.
// Death and win signals are delivered on the scheduler's goroutine, so sinks
// must not call Reset synchronously.
func Drive(e *Engine, c clock.Clock, fps int) *clock.Scheduler {
	s := clock.NewScheduler(c, func(epoch uint64, mask uint32) bool {
		return e.Advance(epoch, Tick(mask))
	}, Triggers(e.Config(), fps)...)

	e.Subscribe(SinkFunc(func(sig Signal) {
		switch sig.Kind {
		case SignalGameStarted:
			s.Start(sig.Epoch)
		case SignalReset:
			s.StopBefore(sig.Epoch)
		}
	}))
	return s
}
