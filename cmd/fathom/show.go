package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codefathom/fathom/internal/workflow"
)

var showCmd = &cobra.Command{
	Use:   "show <layout|observation|connection|pattern_report|notes>",
	Short: "Check whether a content kind is disclosed at the current stage",
	Long: `Content is revealed progressively: each kind has a minimum stage, and
asking for content above the session's stage is refused with the stage
that unlocks it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := resolveSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		kind := workflow.ContentKind(args[0])
		if !kind.IsValid() {
			fmt.Fprintf(os.Stderr, "Error: unknown content kind %q\n", args[0])
			os.Exit(1)
		}

		out, err := mgr.Reveal(ctx, id, kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if out.OK {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s %s content is available at the %s stage\n", green("✓"), kind, out.State.Stage)
		} else {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("%s %s\n", yellow("Withheld:"), out.Reason)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
