package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codefathom/fathom/internal/navigation"
)

var focusCmd = &cobra.Command{
	Use:   "focus <kind> <id>",
	Short: "Focus the session on a single subject",
	Long: `Point the session at one subject: a file, observation, connection,
pattern, or note. A session holds at most one focus at a time; focusing
replaces any previous subject.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := resolveSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		out, err := mgr.SetFocus(ctx, id, navigation.FocusKind(args[0]), args[1])
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
		fmt.Printf("%s Focused on %s\n", green("✓"), out.State.FocusID)
	},
}

var unfocusCmd = &cobra.Command{
	Use:   "unfocus",
	Short: "Clear the session's focus subject",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := resolveSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		out, err := mgr.ClearFocus(ctx, id)
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
		fmt.Printf("%s Focus cleared\n", green("✓"))
	},
}

func init() {
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(unfocusCmd)
}
