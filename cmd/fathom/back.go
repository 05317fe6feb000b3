package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codefathom/fathom/internal/shortcut"
	"github.com/codefathom/fathom/internal/workflow"
)

var backCmd = &cobra.Command{
	Use:   "back <shortcut-kind>",
	Short: "Move backward using a registered shortcut",
	Long: `Apply one of the sanctioned shortcuts. Backward movement is only
possible through the shortcut catalog; 'fathom shortcuts' lists what is
usable from the current position.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := resolveSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		out, err := mgr.UseShortcut(ctx, id, shortcut.Kind(args[0]))
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
		fmt.Printf("%s Now at %s", green("✓"), out.State.Stage)
		if out.State.View != workflow.ViewNone {
			fmt.Printf(" (%s view)", out.State.View)
		}
		fmt.Println()
	},
}

var shortcutsCmd = &cobra.Command{
	Use:   "shortcuts",
	Short: "List shortcuts usable from the current position",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := resolveSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		available, err := mgr.Shortcuts(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("Shortcuts usable from here:"))
		if len(available) == 0 {
			fmt.Println("  none")
			fmt.Println()
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		for _, sc := range available {
			fmt.Printf("  %-22s %s -> %s\n", green(sc.Kind), sc.FromStage, sc.ToStage)
			fmt.Printf("    %s\n", sc.Justification)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(backCmd)
	rootCmd.AddCommand(shortcutsCmd)
}
