// commando is a terminal arcade shooter: hold the line against a wave of
// aliens until the countdown runs out.
//
// Usage:
//
//	commando play            - Play in this terminal
//	commando serve           - Start SSH server for remote play
//	commando web             - Start WebSocket server for browser clients
//	commando simulate        - Run headless games with an auto-aiming gunner
//	commando journal         - List recorded sessions
//	commando config          - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>          - Set frame rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set journal path (default: ~/.arcade/commando.db)
//	--config <path>       - Use a custom game config YAML
//	--log-level <level>   - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-commando/internal/config"
	"github.com/vovakirdan/tui-commando/internal/games/commando"
	"github.com/vovakirdan/tui-commando/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "commando",
	Short: "Commando - Hold the line in your terminal",
	Long: `Commando is a terminal arcade shooter. Aliens march in from the right;
aim the cannon and fire to stop them before they reach it. Survive the
countdown to win.

Available commands:
  play      - Play in this terminal
  serve     - Start SSH server for remote play
  web       - Start WebSocket server for browser clients
  simulate  - Run headless games with an auto-aiming gunner
  journal   - List recorded sessions
  config    - Print the effective configuration

Examples:
  commando play
  commando play --seed 42
  commando serve --ssh :2222
  commando web --addr :8080
  commando simulate --games 4 --speed 20
  commando journal`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/commando.db", "Path to session journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(configCmd)
}

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger builds the process logger at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fatalf("invalid --log-level %q: %v", flagLogLevel, err)
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig loads the game config named by --config or the default search path.
func loadConfig() config.CommandoConfig {
	cfg, err := config.LoadCommando(flagConfig)
	if err != nil {
		fatalf("%v", err)
	}
	return cfg
}

// openJournal opens the session journal. A journal that cannot be opened is
// reported and skipped; games still run without it.
func openJournal(logger *log.Logger) *storage.Journal {
	if flagDBPath == "" {
		return nil
	}
	journal, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open session journal", "path", flagDBPath, "error", err)
		return nil
	}
	return journal
}

// attachJournal registers a session and subscribes its journal sink.
func attachJournal(journal *storage.Journal, engine *commando.Engine, id, transport string, logger *log.Logger) {
	if journal == nil {
		return
	}
	if err := journal.BeginSession(id, transport); err != nil {
		logger.Warn("journal unavailable for session", "session", id, "error", err)
		return
	}
	engine.Subscribe(journal.Sink(id, logger))
}
