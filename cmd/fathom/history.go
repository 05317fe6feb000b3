package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the session's navigation events",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := resolveSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		limit, _ := cmd.Flags().GetInt("limit")

		evs, err := mgr.Events(ctx, id, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("Navigation events (newest first):"))
		for _, ev := range evs {
			fmt.Printf("  %s  %-20s %s\n", ev.Timestamp.Format("2006-01-02 15:04:05"), ev.Type, ev.Message)
		}
		fmt.Println()
	},
}

func init() {
	historyCmd.Flags().Int("limit", 50, "Maximum number of events to show")
	rootCmd.AddCommand(historyCmd)
}
