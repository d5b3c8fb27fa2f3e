package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-commando/internal/storage"
)

var flagJournalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recorded sessions",
	Long: `Display the most recent sessions from the journal with how many
rounds were started, shots fired, deaths and wins in each.

Examples:
  commando journal
  commando journal --limit 50
  commando journal --db ./commando.db`,
	Args: cobra.NoArgs,
	Run:  runJournal,
}

func init() {
	journalCmd.Flags().IntVar(&flagJournalLimit, "limit", 10, "Number of sessions to show")
}

func runJournal(_ *cobra.Command, _ []string) {
	journal, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening journal: %v", err)
	}
	defer journal.Close()

	sessions, err := journal.RecentSessions(flagJournalLimit)
	if err != nil {
		fatalf("reading journal: %v", err)
	}

	fmt.Println("Recent sessions")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'commando play' to start one!")
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-36s  %-9s  %6s  %6s  %6s  %4s\n", "Started", "Session", "Transport", "Rounds", "Shots", "Deaths", "Wins")
	fmt.Printf("  %-16s  %-36s  %-9s  %6s  %6s  %6s  %4s\n", "-------", "-------", "---------", "------", "-----", "------", "----")

	for _, s := range sessions {
		fmt.Printf("  %-16s  %-36s  %-9s  %6d  %6d  %6d  %4d\n",
			s.StartedAt.Format("2006-01-02 15:04"), s.ID, s.Transport, s.Rounds, s.Shots, s.Deaths, s.Wins)
	}
}
