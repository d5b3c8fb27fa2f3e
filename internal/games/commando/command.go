package commando

import (
	"github.com/vovakirdan/tui-commando/internal/core"
)

// Fire shoots from the cannon toward the aim point, given in playfield
// coordinates. The first shot from PhaseIdle starts the round. The cannon
// moves to the clamped aim height even when no bullet results.
//
// It returns true when a bullet was created. Fire does nothing once the
// round has ended, and fires nothing when the aim point sits on the cannon.
func (e *Engine) Fire(aimX, aimY float64) bool {
	e.mu.Lock()
	defer e.unlock()

	switch e.phase {
	case PhaseDead, PhaseWon:
		return false
	case PhaseIdle:
		e.welcomeShown = false
		e.welcomePassed = true
		e.transition(PhasePlaying)
		e.raise(SignalGameStarted)
	}

	c := e.cfg.Cannon
	e.cannonY = core.ClampF(aimY, c.MinY, c.MaxY)

	dist := core.Distance(c.X, e.cannonY, aimX, aimY)
	if dist < e.cfg.Bullets.MinAimDistance {
		return false
	}

	speed := e.cfg.Bullets.Speed
	dx, dy := aimX-c.X, aimY-e.cannonY
	e.store.AddBullet(Bullet{
		X:       c.X,
		Y:       e.cannonY,
		VX:      dx / dist * speed,
		VY:      dy / dist * speed,
		Variant: pick(e.rng, e.cfg.Bullets.Variants),
	})
	e.shots++
	e.raise(SignalShotFired)
	return true
}
