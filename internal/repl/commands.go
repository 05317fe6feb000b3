package repl

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/codefathom/fathom/internal/navigation"
	"github.com/codefathom/fathom/internal/recovery"
	"github.com/codefathom/fathom/internal/shortcut"
	"github.com/codefathom/fathom/internal/workflow"
)

// cmdStatus shows the session's current position
func (r *REPL) cmdStatus(args []string) error {
	rec, err := r.mgr.Current(r.ctx, r.sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("Session Status"))
	fmt.Printf("  Stage:    %s\n", green(rec.State.Stage))
	fmt.Printf("  Question: %s\n", rec.State.Stage.Question())
	if rec.State.View != workflow.ViewNone {
		fmt.Printf("  View:     %s\n", rec.State.View)
	}
	if rec.State.HasFocus() {
		fmt.Printf("  Focus:    %s (%s)\n", rec.State.FocusID, rec.Focus.Kind)
	} else {
		fmt.Printf("  Focus:    none\n")
	}

	transitions, err := r.mgr.Transitions(r.ctx, r.sessionID)
	if err != nil {
		return err
	}
	fmt.Println("\n  Legal moves:")
	for _, t := range transitions {
		if t.IsSelf() {
			fmt.Printf("    stay at %s (change view)\n", t.From)
		} else {
			fmt.Printf("    advance to %s\n", t.To)
		}
	}
	fmt.Println()
	return nil
}

// cmdAdvance moves to the next stage
func (r *REPL) cmdAdvance(args []string) error {
	rec, err := r.mgr.Current(r.ctx, r.sessionID)
	if err != nil {
		return err
	}
	next, ok := rec.State.Stage.Next()
	if !ok {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s Already at the final stage (%s).\n", yellow("Note:"), rec.State.Stage)
		return nil
	}

	out, err := r.mgr.Advance(r.ctx, r.sessionID, next, workflow.ViewNone)
	if err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("%s", out.Reason)
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Now at %s: %s\n", green("✓"), out.State.Stage, out.State.Stage.Question())
	return nil
}

// cmdView switches view within the current stage
func (r *REPL) cmdView(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: view <overview|detail|list|notes>")
	}
	view, err := workflow.ParseView(args[0])
	if err != nil {
		return err
	}

	out, err := r.mgr.SetView(r.ctx, r.sessionID, view)
	if err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("%s", out.Reason)
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s View is now %s\n", green("✓"), out.State.View)
	return nil
}

// cmdFocus points the session at a single subject
func (r *REPL) cmdFocus(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: focus <file|observation|connection|pattern|note> <id>")
	}

	out, err := r.mgr.SetFocus(r.ctx, r.sessionID, navigation.FocusKind(args[0]), args[1])
	if err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("%s", out.Reason)
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Focused on %s\n", green("✓"), out.State.FocusID)
	return nil
}

// cmdUnfocus clears the focus subject
func (r *REPL) cmdUnfocus(args []string) error {
	out, err := r.mgr.ClearFocus(r.ctx, r.sessionID)
	if err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("%s", out.Reason)
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Focus cleared\n", green("✓"))
	return nil
}

// cmdShortcuts lists shortcuts usable from the current position
func (r *REPL) cmdShortcuts(args []string) error {
	available, err := r.mgr.Shortcuts(r.ctx, r.sessionID)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Shortcuts usable from here:"))
	if len(available) == 0 {
		fmt.Println("  none")
		fmt.Println()
		return nil
	}
	green := color.New(color.FgGreen).SprintFunc()
	for _, sc := range available {
		fmt.Printf("  %-22s %s -> %s\n", green(sc.Kind), sc.FromStage, sc.ToStage)
		fmt.Printf("    %s\n", sc.Justification)
	}
	fmt.Println()
	return nil
}

// cmdBack applies a registered shortcut by kind
func (r *REPL) cmdBack(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: back <shortcut-kind> (see 'shortcuts')")
	}

	out, err := r.mgr.UseShortcut(r.ctx, r.sessionID, shortcut.Kind(args[0]))
	if err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("%s", out.Reason)
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Now at %s", green("✓"), out.State.Stage)
	if out.State.View != workflow.ViewNone {
		fmt.Printf(" (%s view)", out.State.View)
	}
	fmt.Println()
	return nil
}

// cmdShow checks progressive disclosure for a content kind
func (r *REPL) cmdShow(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <layout|observation|connection|pattern_report|notes>")
	}
	kind := workflow.ContentKind(args[0])
	if !kind.IsValid() {
		return fmt.Errorf("unknown content kind %q", args[0])
	}

	out, err := r.mgr.Reveal(r.ctx, r.sessionID, kind)
	if err != nil {
		return err
	}
	if out.OK {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s content is available at the %s stage\n", green("✓"), kind, out.State.Stage)
	} else {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s %s\n", yellow("Withheld:"), out.Reason)
	}
	return nil
}

// cmdDiagnose checks the session for navigation failures
func (r *REPL) cmdDiagnose(args []string) error {
	failures, err := r.mgr.Diagnose(r.ctx, r.sessionID, nil)
	if err != nil {
		return err
	}
	if len(failures) == 0 {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s No navigation failures detected\n", green("✓"))
		return nil
	}

	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n\n", red("Navigation failures:"))
	for _, f := range failures {
		meta := f.Kind.Metadata()
		fmt.Printf("  %s: %s\n", red(f.Kind), f.Detail)
		if meta.RequiresImmediateRecovery {
			fmt.Println("    requires immediate recovery; run 'recover " + string(f.Kind) + "'")
		}
	}
	fmt.Println()
	return nil
}

// cmdRecover applies the sanctioned recovery path for a failure kind. A
// path that needs confirmation is applied only when the user appends
// "confirm".
func (r *REPL) cmdRecover(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: recover <failure-kind> [confirm]")
	}
	kind := recovery.FailureKind(args[0])
	if !kind.IsValid() {
		return fmt.Errorf("unknown failure kind %q", args[0])
	}
	confirmed := len(args) == 2 && strings.EqualFold(args[1], "confirm")

	out, err := r.mgr.Recover(r.ctx, r.sessionID, recovery.NavigationFailure{Kind: kind}, confirmed)
	if err != nil {
		return err
	}
	if !out.OK {
		if out.Path != nil && out.Path.RequiresConfirmation && !confirmed {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("%s %s\n", yellow("Confirmation needed:"), out.Path.Message)
			fmt.Printf("  Re-run as: recover %s confirm\n", kind)
			return nil
		}
		return fmt.Errorf("%s", out.Reason)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s %s\n", green("✓"), out.Path.Message)
	fmt.Printf("  Now at %s\n", out.State.Stage)
	return nil
}

// cmdHint asks the advisor what to look at next
func (r *REPL) cmdHint(args []string) error {
	if r.advisor == nil {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s The advisor is disabled. Enable it in the config file and set ANTHROPIC_API_KEY.\n", yellow("Note:"))
		return nil
	}

	rec, err := r.mgr.Current(r.ctx, r.sessionID)
	if err != nil {
		return err
	}
	hint, err := r.advisor.Hint(r.ctx, rec.State)
	if err != nil {
		return fmt.Errorf("advisor: %w", err)
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("\n%s %s\n\n", cyan("Hint:"), hint)
	return nil
}

// cmdHistory shows recent navigation events
func (r *REPL) cmdHistory(args []string) error {
	evs, err := r.mgr.Events(r.ctx, r.sessionID, 20)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Recent navigation events:"))
	for _, ev := range evs {
		fmt.Printf("  %s  %-20s %s\n", ev.Timestamp.Format("15:04:05"), ev.Type, ev.Message)
	}
	fmt.Println()
	return nil
}
