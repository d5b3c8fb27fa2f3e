package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-commando/internal/clock"
	"github.com/vovakirdan/tui-commando/internal/games/commando"
	"github.com/vovakirdan/tui-commando/internal/sim"
)

var (
	flagSimGames int
	flagSimSpeed float64
	flagSimAim   time.Duration
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run headless games with an auto-aiming gunner",
	Long: `Play games without a terminal. A scripted gunner fires at the enemy
closest to the cannon at a fixed interval. Games run on the real
scheduler; --speed makes game time pass faster than wall time.

Examples:
  commando simulate
  commando simulate --games 8 --speed 20
  commando simulate --aim-every 100ms --seed 42`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimGames, "games", 1, "Number of games to run concurrently")
	simulateCmd.Flags().Float64Var(&flagSimSpeed, "speed", 10, "Game seconds per wall second")
	simulateCmd.Flags().DurationVar(&flagSimAim, "aim-every", 250*time.Millisecond, "Game time between shots")
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "commando-sim")
	if flagSimGames < 1 {
		fatalf("--games must be at least 1")
	}

	opts := sim.Options{
		Game:     loadConfig(),
		FPS:      flagFPS,
		Clock:    clock.Scaled(clock.Real(), flagSimSpeed),
		AimEvery: flagSimAim,
		Seed:     flagSeed,
		Logger:   logger,
	}
	if journal := openJournal(logger); journal != nil {
		defer journal.Close()
		opts.Journal = journal
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results, err := sim.Run(ctx, opts, flagSimGames)
	if err != nil {
		fatalf("simulation: %v", err)
	}

	fmt.Printf("  %-4s  %-7s  %5s  %8s  %5s  %4s\n", "Game", "Outcome", "Score", "Survived", "Shots", "Hits")
	fmt.Printf("  %-4s  %-7s  %5s  %8s  %5s  %4s\n", "----", "-------", "-----", "--------", "-----", "----")

	wins := 0
	for _, r := range results {
		if r.Outcome == commando.PhaseWon {
			wins++
		}
		fmt.Printf("  %-4d  %-7s  %5d  %7ds  %5d  %4d\n", r.Game, r.Outcome, r.Score, r.Survived, r.Shots, r.Hits)
	}

	fmt.Println()
	fmt.Printf("Won %d of %d in %s\n", wins, len(results), time.Since(start).Round(time.Millisecond))
}
