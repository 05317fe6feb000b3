package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var hintCmd = &cobra.Command{
	Use:   "hint",
	Short: "Ask the advisor what to look at next",
	Long: `Ask the AI advisor for a suggestion grounded in the session's current
stage and focus. The advisor is strictly advisory: it never moves the
session, and the navigation rules ignore it.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a := newAdvisor()
		if a == nil {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("%s The advisor is disabled. Enable it in the config file and set ANTHROPIC_API_KEY.\n", yellow("Note:"))
			return
		}

		id, err := resolveSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		rec, err := mgr.Current(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		hint, err := a.Hint(ctx, rec.State)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: advisor: %v\n", err)
			os.Exit(1)
		}
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("\n%s %s\n\n", cyan("Hint:"), hint)
	},
}

func init() {
	rootCmd.AddCommand(hintCmd)
}
