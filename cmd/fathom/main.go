package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codefathom/fathom/internal/advisor"
	"github.com/codefathom/fathom/internal/config"
	"github.com/codefathom/fathom/internal/session"
	"github.com/codefathom/fathom/internal/storage"
	"github.com/codefathom/fathom/internal/storage/sqlite"
)

// Shared state for all subcommands, populated in PersistentPreRunE.
var (
	cfgPath   string
	dbPath    string
	actor     string
	sessionID string

	cfg   *config.Config
	store storage.Storage
	mgr   *session.Manager
)

var rootCmd = &cobra.Command{
	Use:   "fathom",
	Short: "Staged code investigation for developers",
	Long: `Fathom walks a developer through understanding an unfamiliar codebase
in five fixed stages: orientation, examination, connections, patterns,
and thinking. Each stage answers one question, and the tool refuses to
skip ahead or wander backward outside a small set of sanctioned
shortcuts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DatabasePath = dbPath
		}
		if actor != "" {
			cfg.Actor = actor
		}

		store, err = sqlite.New(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		mgr, err = session.NewManager(&session.Config{
			Store: store,
			Actor: cfg.Actor,
		})
		if err != nil {
			return fmt.Errorf("creating session manager: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to session database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Who is driving the investigation (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "", "Session ID (defaults to the most recent session)")
}

// resolveSession returns the session to operate on: the --session flag if
// given, otherwise the most recently updated session.
func resolveSession(ctx context.Context) (string, error) {
	if sessionID != "" {
		return sessionID, nil
	}
	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return "", fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		return "", fmt.Errorf("no sessions exist; run 'fathom begin' first")
	}
	return sessions[0].ID, nil
}

// newAdvisor builds the advisor when enabled; nil when disabled or
// misconfigured (commands degrade to a note rather than failing).
func newAdvisor() *advisor.Advisor {
	if !cfg.Advisor.Enabled {
		return nil
	}
	a, err := advisor.New(&advisor.Config{Model: cfg.Advisor.Model})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: advisor disabled: %v\n", err)
		return nil
	}
	return a
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
