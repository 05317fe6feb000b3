package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var beginCmd = &cobra.Command{
	Use:   "begin",
	Short: "Start a new investigation session",
	Long: `Create a new investigation session at the orientation stage.

The new session becomes the default target for subsequent commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		rec, err := mgr.Begin(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s Session %s started\n", green("✓"), cyan(rec.ID))
		fmt.Printf("  Stage: %s\n", rec.State.Stage)
		fmt.Printf("  Question: %s\n", rec.State.Stage.Question())
	},
}

func init() {
	rootCmd.AddCommand(beginCmd)
}
