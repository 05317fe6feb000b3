package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List investigation sessions",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		sessions, err := store.ListSessions(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("Sessions:"))
		if len(sessions) == 0 {
			fmt.Printf("  %s\n\n", gray("none; run 'fathom begin'"))
			return
		}
		for _, rec := range sessions {
			fmt.Printf("  %s  %-12s %-9s updated %s\n",
				rec.ID, rec.State.Stage, rec.Actor,
				rec.UpdatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Println()
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume [session-id]",
	Short: "Resume a session from its checkpoint",
	Long: `Load a checkpointed session and report any failures found in the
restored position. Nothing is auto-corrected; detected failures point at
'fathom recover'.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id := sessionID
		if len(args) == 1 {
			id = args[0]
		}
		if id == "" {
			var err error
			id, err = resolveSession(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		rec, failures, err := mgr.Resume(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Resumed session %s at %s\n", green("✓"), rec.ID, rec.State.Stage)

		if len(failures) > 0 {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("\n%s\n", red("The restored position has problems:"))
			for _, f := range failures {
				fmt.Printf("  %s: %s\n", f.Kind, f.Detail)
			}
			fmt.Println("\nRun 'fathom recover <failure-kind>' to repair.")
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(resumeCmd)
}
