package commando

// Snapshot is a read-only copy of the game for renderers and transports.
// It shares no memory with the engine.
type Snapshot struct {
	Phase           Phase    `json:"phase"`
	Epoch           uint64   `json:"epoch"`
	Score           int      `json:"score"`
	Remaining       int      `json:"remaining"`
	Survived        int      `json:"survived"`
	Duration        int      `json:"duration"`
	SpeedMultiplier float64  `json:"speed"`
	CannonX         float64  `json:"cannon_x"`
	CannonY         float64  `json:"cannon_y"`
	Bullets         []Bullet `json:"bullets"`
	Enemies         []Enemy  `json:"enemies"`
	WelcomeShown    bool     `json:"welcome_shown"`
	WelcomePassed   bool     `json:"welcome_passed"`
	Shots           int      `json:"shots"`
	Hits            int      `json:"hits"`
}

// Snapshot returns a deep copy of the current game.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	bullets := make([]Bullet, len(e.store.Bullets))
	copy(bullets, e.store.Bullets)
	enemies := make([]Enemy, len(e.store.Enemies))
	copy(enemies, e.store.Enemies)

	return Snapshot{
		Phase:           e.phase,
		Epoch:           e.epoch,
		Score:           e.score,
		Remaining:       e.remaining,
		Survived:        e.survived(),
		Duration:        e.cfg.Timing.SurvivalSeconds,
		SpeedMultiplier: e.speed,
		CannonX:         e.cfg.Cannon.X,
		CannonY:         e.cannonY,
		Bullets:         bullets,
		Enemies:         enemies,
		WelcomeShown:    e.welcomeShown,
		WelcomePassed:   e.welcomePassed,
		Shots:           e.shots,
		Hits:            e.hits,
	}
}
