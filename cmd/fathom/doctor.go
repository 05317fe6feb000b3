package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/codefathom/fathom/internal/recovery"
	"github.com/codefathom/fathom/internal/shortcut"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check fathom installation and environment health",
	Long: `Run health checks to diagnose common configuration problems.

This command checks:
- Database accessibility
- Shortcut catalog validity
- Recovery catalog coverage of every failure kind
- Advisor configuration (when enabled)

Exit codes:
  0 - All checks passed
  1 - One or more checks failed`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Running fathom health checks...\n\n")

		var mu sync.Mutex
		var failures []string
		report := func(name string, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", name, err))
				fmt.Printf("%s %s: %v\n", red("✗"), name, err)
			} else {
				fmt.Printf("%s %s\n", green("✓"), name)
			}
		}

		fmt.Printf("%s Checking core catalogs and storage\n", cyan("→"))
		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			_, err := shortcut.NewRegistry()
			report("shortcut catalog", err)
			return nil
		})
		g.Go(func() error {
			reg, err := recovery.NewRegistry()
			if err == nil {
				for _, kind := range recovery.AllFailureKinds() {
					if len(reg.PathsFor(kind)) == 0 {
						err = fmt.Errorf("no recovery path for %s", kind)
						break
					}
				}
			}
			report("recovery catalog", err)
			return nil
		})
		g.Go(func() error {
			_, err := store.ListSessions(gCtx)
			report("database at "+cfg.DatabasePath, err)
			return nil
		})
		g.Go(func() error {
			if !cfg.Advisor.Enabled {
				report("advisor (disabled)", nil)
				return nil
			}
			var err error
			if os.Getenv("ANTHROPIC_API_KEY") == "" {
				err = fmt.Errorf("advisor enabled but ANTHROPIC_API_KEY not set")
			}
			report("advisor", err)
			return nil
		})
		_ = g.Wait()

		fmt.Println()
		if len(failures) > 0 {
			fmt.Printf("%s %d check(s) failed\n", red("✗"), len(failures))
			os.Exit(1)
		}
		fmt.Printf("%s All checks passed\n", green("✓"))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
