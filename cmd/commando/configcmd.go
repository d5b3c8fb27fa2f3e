package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-commando/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the game configuration as YAML after applying --config or the
default search order:

  ~/.arcade/configs/commando.yaml
  ./configs/commando.yaml
  built-in defaults

The output is a complete config file and can be edited and passed back
with --config.

Examples:
  commando config > my-commando.yaml
  commando config --config ./my-commando.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, _ []string) {
	data, err := config.MarshalCommando(loadConfig())
	if err != nil {
		fatalf("%v", err)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
