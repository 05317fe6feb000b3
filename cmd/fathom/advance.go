package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codefathom/fathom/internal/workflow"
)

var advanceCmd = &cobra.Command{
	Use:   "advance [stage]",
	Short: "Move the session forward one stage",
	Long: `Advance the session to the next stage in the fixed sequence:
orientation, examination, connections, patterns, thinking.

With no argument the session moves to its next stage. Naming a stage is
allowed only when that stage is the next one; skipping is refused.`,
	Args: cobra.MaximumNArgs(1),
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

		var target workflow.Stage
		if len(args) == 1 {
			target, err = workflow.ParseStage(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		} else {
			next, ok := rec.State.Stage.Next()
			if !ok {
				fmt.Printf("Already at the final stage (%s).\n", rec.State.Stage)
				return
			}
			target = next
		}

		out, err := mgr.Advance(ctx, id, target, workflow.ViewNone)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !out.OK {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(os.Stderr, "%s %s\n", red("Refused:"), out.Reason)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Now at %s\n", green("✓"), out.State.Stage)
		fmt.Printf("  Question: %s\n", out.State.Stage.Question())
	},
}

func init() {
	rootCmd.AddCommand(advanceCmd)
}
