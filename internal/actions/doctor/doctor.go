// Package doctor prints the detected settings and sanity-checks the
// environment a fork workflow depends on.
package doctor

import (
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// Options contains options for the doctor command
type Options struct{}

// report is what doctor found, kept separate from printing so it can be tested
type report struct {
	rows     [][2]string
	warnings []string
	errors   []string
}

func (r *report) add(label, value string) {
	r.rows = append(r.rows, [2]string{label, value})
}

// Action runs diagnostic checks on the environment and repository
func Action(ctx *runtime.Context, _ Options) error {
	splog := ctx.Splog

	splog.Info("%s", tui.Bold(tui.ColorCyan("Environment Check")))
	splog.Newline()

	r := &report{}
	checkRepository(ctx, r)
	checkEnvironment(ctx, r)

	splog.Page(tui.RenderKeyValues(r.rows))
	splog.Newline()

	switch {
	case len(r.errors) > 0:
		splog.Warn("Doctor found %d error(s) and %d warning(s).", len(r.errors), len(r.warnings))
		for _, err := range r.errors {
			splog.Error("  %s", err)
		}
		for _, warn := range r.warnings {
			splog.Warn("  %s", warn)
		}
		return fmt.Errorf("doctor found %d error(s)", len(r.errors))
	case len(r.warnings) > 0:
		splog.Info("%s", tui.ColorYellow("Issues found:"))
		for _, warn := range r.warnings {
			splog.Info("  • %s", warn)
		}
	default:
		splog.Success("Environment check passed")
	}

	return nil
}
