package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-commando/internal/clock"
	"github.com/vovakirdan/tui-commando/internal/config"
	"github.com/vovakirdan/tui-commando/internal/games/commando"
	"github.com/vovakirdan/tui-commando/internal/storage"
)

func fastOptions() Options {
	cfg := config.DefaultCommandoConfig()
	cfg.Timing.SurvivalSeconds = 1
	return Options{
		Game:  cfg,
		FPS:   60,
		Clock: clock.Scaled(clock.Real(), 20),
		Seed:  7,
	}
}

func TestTarget(t *testing.T) {
	if _, ok := Target(commando.Snapshot{}); ok {
		t.Error("Target found an enemy in an empty snapshot")
	}

	snap := commando.Snapshot{Enemies: []commando.Enemy{
		{ID: 1, X: 80, Y: 20},
		{ID: 2, X: 30, Y: 70},
		{ID: 3, X: 55, Y: 40},
	}}
	got, ok := Target(snap)
	if !ok || got.ID != 2 {
		t.Errorf("Target() = %+v, %v, expected enemy 2", got, ok)
	}
}

func TestPlayFinishesRound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r, err := Play(ctx, fastOptions(), "game-1")
	if err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if !r.Outcome.Terminal() {
		t.Errorf("Outcome = %v, expected dead or won", r.Outcome)
	}
	if r.Shots < 1 {
		t.Errorf("Shots = %d, expected the opening shot at least", r.Shots)
	}
	if r.Hits != r.Score {
		t.Errorf("Hits = %d, Score = %d, expected equal", r.Hits, r.Score)
	}
	if r.Survived > 1 {
		t.Errorf("Survived = %d, expected at most 1", r.Survived)
	}
}

func TestPlayCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Play(ctx, fastOptions(), "game-1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Play() error = %v, expected context.Canceled", err)
	}
}

func TestRunManyGames(t *testing.T) {
	journal, err := storage.Open(t.TempDir() + "/sim.db")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer journal.Close()

	opts := fastOptions()
	opts.Journal = journal

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := Run(ctx, opts, 3)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, expected 3", len(results))
	}

	seen := make(map[string]bool)
	for i, r := range results {
		if r.Game != i+1 {
			t.Errorf("results[%d].Game = %d, expected %d", i, r.Game, i+1)
		}
		if seen[r.Session] {
			t.Errorf("session %s reused", r.Session)
		}
		seen[r.Session] = true
	}

	journal.Flush()
	sessions, err := journal.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() error: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("journal has %d sessions, expected 3", len(sessions))
	}
	for _, s := range sessions {
		if s.Transport != "simulate" || s.Rounds != 1 || s.Deaths+s.Wins != 1 {
			t.Errorf("session %+v, expected one finished simulate round", s)
		}
	}
}
