package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codefathom/fathom/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive investigation shell",
	Long: `Start an interactive shell bound to one session.

The shell exposes the same operations as the subcommands (status,
advance, view, focus, back, diagnose, recover) without re-opening the
database per command. Type 'help' in the shell for details.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := resolveSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		r, err := repl.New(&repl.Config{
			Manager:     mgr,
			SessionID:   id,
			Advisor:     newAdvisor(),
			HistoryFile: cfg.HistoryFile,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create shell: %v\n", err)
			os.Exit(1)
		}

		if err := r.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
