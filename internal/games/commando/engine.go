// Package commando implements the arcade shooter simulation.
//
// The engine is driven entirely from outside: a scheduler (or the TUI's tick
// messages) calls Advance with the triggers that became due, and the input
// layer calls Fire. All state lives behind one mutex, so the frame integrator
// and the collision resolver can run on independent schedules without racing
// on the entity collections.
//
// Every move into or out of PhasePlaying, and every Reset, bumps the engine's
// epoch. Periodic triggers carry the epoch they were started for and are
// ignored once it is stale, so a late tick can never touch a finished or
// restarted round.
package commando

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-commando/internal/config"
)

// Engine is the shooter simulation. It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	cfg     config.CommandoConfig
	rng     RandomSource
	logger  *log.Logger
	sinks   []SignalSink
	pending []Signal

	store     *Store
	phase     Phase
	epoch     uint64
	score     int
	remaining int
	speed     float64
	cannonY   float64

	welcomeShown  bool
	welcomePassed bool

	shots int
	hits  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom sets the random source used for spawns and variants.
func WithRandom(rng RandomSource) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithSeed seeds the default random source.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = NewRandom(seed) }
}

// WithLogger sets the logger used for phase transitions.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSignalSink registers a sink at construction time.
func WithSignalSink(sink SignalSink) Option {
	return func(e *Engine) { e.sinks = append(e.sinks, sink) }
}

// New creates an engine in PhaseIdle with the welcome screen pending.
func New(cfg config.CommandoConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		logger: log.New(io.Discard),
		store:  NewStore(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRandom(1)
	}
	e.restore()
	return e
}

// restore puts the round back to its initial values. Caller holds mu.
func (e *Engine) restore() {
	e.store.Clear()
	e.phase = PhaseIdle
	e.score = 0
	e.remaining = e.cfg.Timing.SurvivalSeconds
	e.speed = 1
	e.cannonY = e.cfg.Cannon.StartY
	e.shots = 0
	e.hits = 0
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.CommandoConfig {
	return e.cfg
}

// Subscribe adds a signal sink.
func (e *Engine) Subscribe(sink SignalSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, sink)
}

// unlock releases mu and then delivers the signals raised while it was held.
func (e *Engine) unlock() {
	pending := e.pending
	e.pending = nil
	sinks := e.sinks
	e.mu.Unlock()

	for _, sig := range pending {
		for _, s := range sinks {
			s.Emit(sig)
		}
	}
}

// raise queues a signal for delivery after unlock. Caller holds mu.
func (e *Engine) raise(kind SignalKind) {
	e.pending = append(e.pending, Signal{
		Kind:     kind,
		Epoch:    e.epoch,
		Score:    e.score,
		Survived: e.survived(),
	})
}

func (e *Engine) survived() int {
	return e.cfg.Timing.SurvivalSeconds - e.remaining
}

// transition moves to a new phase and starts a new epoch. Caller holds mu.
func (e *Engine) transition(to Phase) {
	from := e.phase
	e.phase = to
	e.epoch++
	e.logger.Debug("phase changed", "from", from, "to", to, "epoch", e.epoch, "score", e.score)
}

// finish ends the round. Entities never outlive the playing phase.
func (e *Engine) finish(to Phase, kind SignalKind) {
	e.store.Clear()
	e.transition(to)
	e.raise(kind)
}

// Advance processes the triggers in ticks for the given epoch. Triggers run
// in the fixed order frame, collision, spawn, ramp, countdown, and processing
// stops as soon as the round ends, so a death in the same batch as the last
// countdown tick is a loss. It returns false once epoch no longer identifies
// a running round; the caller should stop its timers.
func (e *Engine) Advance(epoch uint64, ticks Tick) bool {
	e.mu.Lock()
	defer e.unlock()

	if epoch != e.epoch || e.phase != PhasePlaying {
		return false
	}
	for _, t := range tickOrder {
		if ticks&t == 0 {
			continue
		}
		switch t {
		case TickFrame:
			e.stepFrame()
		case TickCollision:
			e.stepCollision()
		case TickSpawn:
			spawnEnemy(e.store, e.cfg.Enemies, e.rng)
		case TickRamp:
			e.speed = rampSpeed(e.speed, e.cfg.Difficulty.RampFactor, e.cfg.Difficulty.RampMax)
		case TickCountdown:
			e.stepCountdown()
		}
		if e.phase != PhasePlaying {
			return false
		}
	}
	return true
}

func (e *Engine) stepFrame() {
	en := e.cfg.Enemies
	step := approachStep(en.BaseApproachRate, e.speed, e.score, en.ScoreAcceleration)
	if integrate(e.store, e.cfg.Playfield.Size, step, en.LethalX) > 0 {
		e.finish(PhaseDead, SignalPlayerDied)
	}
}

func (e *Engine) stepCollision() {
	hits := resolveCollisions(e.store, e.cfg.Enemies.HitRadius)
	e.score += hits
	e.hits += hits
}

func (e *Engine) stepCountdown() {
	if e.remaining <= 1 {
		e.remaining = 0
		e.finish(PhaseWon, SignalPlayerWon)
		return
	}
	e.remaining--
}

// Reset aborts or clears the current round and returns to PhaseIdle. It is
// valid from every phase. The welcome screen is treated as passed.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.unlock()

	e.restore()
	e.welcomeShown = false
	e.welcomePassed = true
	e.transition(PhaseIdle)
	e.raise(SignalReset)
}

// StartWelcome shows the welcome screen. Only valid while idle.
func (e *Engine) StartWelcome() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseIdle && !e.welcomePassed {
		e.welcomeShown = true
	}
}

// DismissWelcome hides the welcome screen. Only valid while idle.
func (e *Engine) DismissWelcome() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseIdle {
		e.welcomeShown = false
		e.welcomePassed = true
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Epoch returns the current epoch.
func (e *Engine) Epoch() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epoch
}
