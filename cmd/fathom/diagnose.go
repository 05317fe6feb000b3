package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codefathom/fathom/internal/recovery"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check the session for navigation failures",
	Long: `Run the failure detector against the session's checkpointed position.
Each finding is classified (dangling focus, stale snapshot, corrupted
state, and so on) and recorded in the audit trail; nothing is changed.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := resolveSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		failures, err := mgr.Diagnose(ctx, id, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(failures) == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s No navigation failures detected\n", green("✓"))
			return
		}

		red := color.New(color.FgRed, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", red("Navigation failures:"))
		for _, f := range failures {
			meta := f.Kind.Metadata()
			fmt.Printf("  %s: %s\n", red(f.Kind), f.Detail)
			if meta.RequiresImmediateRecovery {
				fmt.Printf("    requires immediate recovery; run 'fathom recover %s'\n", f.Kind)
			}
			if meta.LostInformation != "" {
				fmt.Printf("    lost: %s\n", meta.LostInformation)
			}
		}
		fmt.Println()
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover <failure-kind>",
	Short: "Apply the sanctioned recovery path for a failure",
	Long: `Apply the recovery path registered for a detected failure kind.
Recovery never picks an arbitrary position: each failure kind maps to a
fixed target, and paths that lose information ask for --confirm first.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := resolveSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		kind := recovery.FailureKind(args[0])
		if !kind.IsValid() {
			fmt.Fprintf(os.Stderr, "Error: unknown failure kind %q\n", args[0])
			os.Exit(1)
		}

		confirmed, _ := cmd.Flags().GetBool("confirm")
		out, err := mgr.Recover(ctx, id, recovery.NavigationFailure{Kind: kind}, confirmed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !out.OK {
			if out.Path != nil && out.Path.RequiresConfirmation && !confirmed {
				yellow := color.New(color.FgYellow).SprintFunc()
				fmt.Printf("%s %s\n", yellow("Confirmation needed:"), out.Path.Message)
				fmt.Printf("  Re-run with --confirm to apply.\n")
				return
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(os.Stderr, "%s %s\n", red("Refused:"), out.Reason)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s\n", green("✓"), out.Path.Message)
		fmt.Printf("  Now at %s\n", out.State.Stage)
	},
}

func init() {
	recoverCmd.Flags().Bool("confirm", false, "Confirm a recovery that loses position or focus")
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(recoverCmd)
}
