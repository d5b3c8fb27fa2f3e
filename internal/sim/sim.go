// Package sim plays headless games with a scripted gunner. It drives the
// engine with the same scheduler the web server uses, optionally on a
// scaled clock, and is used for smoke runs and balancing.
package sim

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-commando/internal/clock"
	"github.com/vovakirdan/tui-commando/internal/config"
	"github.com/vovakirdan/tui-commando/internal/core"
	"github.com/vovakirdan/tui-commando/internal/games/commando"
	"github.com/vovakirdan/tui-commando/internal/storage"
)

// Options configures a simulation.
type Options struct {
	Game     config.CommandoConfig
	FPS      int
	Clock    clock.Clock   // Defaults to the wall clock
	AimEvery time.Duration // Game time between shots
	Seed     int64         // Mixed with each session id; 0 uses the clock
	Logger   *log.Logger
	Journal  *storage.Journal // Optional
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.AimEvery <= 0 {
		o.AimEvery = 250 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Result is the outcome of one simulated game.
type Result struct {
	Game     int
	Session  string
	Outcome  commando.Phase
	Score    int
	Survived int
	Shots    int
	Hits     int
}

// Target returns the enemy nearest the cannon, if any.
func Target(snap commando.Snapshot) (commando.Enemy, bool) {
	if len(snap.Enemies) == 0 {
		return commando.Enemy{}, false
	}
	best := snap.Enemies[0]
	for _, e := range snap.Enemies[1:] {
		if e.X < best.X {
			best = e
		}
	}
	return best, true
}

// Play runs one game until the player dies or wins.
// Canceling ctx resets the game and returns ctx.Err().
func Play(ctx context.Context, opts Options, id string) (Result, error) {
	opts = opts.withDefaults()
	logger := opts.Logger.With("session", id)

	engine := commando.New(opts.Game,
		commando.WithSeed(core.SessionSeed(opts.Seed, id)),
		commando.WithLogger(logger),
	)
	scheduler := commando.Drive(engine, opts.Clock, opts.FPS)
	defer scheduler.Stop()

	if opts.Journal != nil {
		if err := opts.Journal.BeginSession(id, "simulate"); err != nil {
			logger.Warn("journal unavailable for session", "error", err)
		} else {
			engine.Subscribe(opts.Journal.Sink(id, logger))
		}
	}

	ended := make(chan struct{})
	var once sync.Once
	engine.Subscribe(commando.SinkFunc(func(sig commando.Signal) {
		if sig.Kind == commando.SignalPlayerDied || sig.Kind == commando.SignalPlayerWon {
			once.Do(func() { close(ended) })
		}
	}))

	aim := opts.Clock.NewTicker(opts.AimEvery)
	defer aim.Stop()

	// Opening shot starts the round.
	size := opts.Game.Playfield.Size
	engine.Fire(size*0.9, opts.Game.Cannon.StartY)

	for {
		select {
		case <-ctx.Done():
			engine.Reset()
			return Result{}, ctx.Err()
		case <-ended:
			snap := engine.Snapshot()
			logger.Debug("game over", "outcome", snap.Phase, "score", snap.Score)
			return Result{
				Session:  id,
				Outcome:  snap.Phase,
				Score:    snap.Score,
				Survived: snap.Survived,
				Shots:    snap.Shots,
				Hits:     snap.Hits,
			}, nil
		case <-aim.C():
			if e, ok := Target(engine.Snapshot()); ok {
				engine.Fire(e.X, e.Y)
			}
		}
	}
}

// Run plays n independent games concurrently and returns their results in
// game order. The first error cancels the remaining games.
func Run(ctx context.Context, opts Options, n int) ([]Result, error) {
	results := make([]Result, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			r, err := Play(ctx, opts, uuid.NewString())
			if err != nil {
				return err
			}
			r.Game = i + 1
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
