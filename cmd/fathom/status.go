package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codefathom/fathom/internal/workflow"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session's current stage, view, and focus",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

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

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("Session "+rec.ID))
		fmt.Printf("  Actor:    %s\n", rec.Actor)
		fmt.Printf("  Stage:    %s\n", green(rec.State.Stage))
		fmt.Printf("  Question: %s\n", rec.State.Stage.Question())
		if rec.State.View != workflow.ViewNone {
			fmt.Printf("  View:     %s\n", rec.State.View)
		}
		if rec.State.HasFocus() {
			fmt.Printf("  Focus:    %s (%s)\n", rec.State.FocusID, rec.Focus.Kind)
		} else {
			fmt.Printf("  Focus:    %s\n", gray("none"))
		}

		transitions, err := mgr.Transitions(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\n  Legal moves:")
		for _, t := range transitions {
			if t.IsSelf() {
				fmt.Printf("    stay at %s (change view)\n", t.From)
			} else {
				fmt.Printf("    advance to %s\n", t.To)
			}
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
