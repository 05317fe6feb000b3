package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/codefathom/fathom/internal/advisor"
	"github.com/codefathom/fathom/internal/session"
)

// REPL is the interactive investigation shell. It drives exactly one
// session; all navigation rules live in the session manager and below, so
// the shell is a thin command dispatcher.
type REPL struct {
	mgr       *session.Manager
	advisor   *advisor.Advisor
	sessionID string
	rl        *readline.Instance
	ctx       context.Context
	commands  map[string]CommandHandler
	history   string
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Manager   *session.Manager
	SessionID string

	// Advisor is optional; without it the hint command reports that the
	// advisor is disabled.
	Advisor *advisor.Advisor

	// HistoryFile is where readline persists input history.
	HistoryFile string
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Manager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if cfg.SessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	r := &REPL{
		mgr:       cfg.Manager,
		advisor:   cfg.Advisor,
		sessionID: cfg.SessionID,
		history:   cfg.HistoryFile,
		commands:  make(map[string]CommandHandler),
	}
	r.registerCommands()
	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("fathom> "),
		HistoryFile:       r.history,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

// processInput processes a single line of input
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := parts[0]
	args := parts[1:]

	if handler, ok := r.commands[command]; ok {
		return handler(args)
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Unknown command %q. Use 'help' for available commands.\n", yellow("Note:"), command)
	return nil
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["status"] = r.cmdStatus
	r.commands["advance"] = r.cmdAdvance
	r.commands["next"] = r.cmdAdvance
	r.commands["view"] = r.cmdView
	r.commands["focus"] = r.cmdFocus
	r.commands["unfocus"] = r.cmdUnfocus
	r.commands["back"] = r.cmdBack
	r.commands["shortcuts"] = r.cmdShortcuts
	r.commands["show"] = r.cmdShow
	r.commands["diagnose"] = r.cmdDiagnose
	r.commands["recover"] = r.cmdRecover
	r.commands["hint"] = r.cmdHint
	r.commands["history"] = r.cmdHistory
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("Fathom - staged code investigation"))
	fmt.Println("Orient, examine, connect, find patterns, record thoughts.")
	fmt.Println()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"status", "Show the session's current stage, view, and focus"},
		{"advance", "Move to the next investigation stage"},
		{"view <name>", "Switch view within the current stage"},
		{"focus <kind> <id>", "Focus on a single subject (file, observation, connection, pattern, note)"},
		{"unfocus", "Clear the focus subject"},
		{"back <shortcut>", "Use a registered shortcut to move backward"},
		{"shortcuts", "List shortcuts usable from here"},
		{"show <kind>", "Check whether a content kind is disclosed at this stage"},
		{"diagnose", "Check the session for navigation failures"},
		{"recover <failure>", "Apply the sanctioned recovery for a failure"},
		{"hint", "Ask the advisor what to look at next"},
		{"history", "Show recent navigation events"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the shell"},
	}
	for _, cmd := range commands {
		fmt.Printf("  %-22s %s\n", green(cmd.name), cmd.desc)
	}
	fmt.Println()
	return nil
}

// cmdExit exits the REPL
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Goodbye!\n", green("✓"))
	r.rl.Close()
	return io.EOF
}
