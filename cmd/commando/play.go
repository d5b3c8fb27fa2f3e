package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-commando/internal/core"
	"github.com/vovakirdan/tui-commando/internal/games/commando"
	"github.com/vovakirdan/tui-commando/internal/platform/tui"
)

var flagLogFile string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in the current terminal.

Controls:
  Click          - Aim and fire at the clicked point
  Up/Down, W/S   - Move the aim cursor
  Space/F        - Fire at the cursor
  Enter          - Dismiss the welcome screen
  R              - Restart
  Ctrl+S         - Save a screenshot
  ?              - More keys
  Q/Ctrl+C       - Quit

Examples:
  commando play
  commando play --seed 42
  commando play --config ./my-commando.yaml
  commando play --log-file ~/.arcade/commando.log --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the terminal is busy with the game)")
}

func runPlay(_ *cobra.Command, _ []string) {
	// The game owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			fatalf("cannot create log directory: %v", err)
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			fatalf("cannot open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, "commando")

	gameCfg := loadConfig()

	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	id := uuid.NewString()
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     core.SessionSeed(flagSeed, id),
	}

	engine := commando.New(gameCfg,
		commando.WithSeed(cfg.Seed),
		commando.WithLogger(logger.With("session", id)),
	)

	journal := openJournal(logger)
	attachJournal(journal, engine, id, "local", logger)

	runErr := tui.Run(engine, cfg, tui.WithLogger(logger))

	// Close journal before potential exit
	if journal != nil {
		journal.Close()
	}

	if runErr != nil {
		fatalf("running game: %v", runErr)
	}
}
