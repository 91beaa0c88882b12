package actions

import (
	"worktreeflow.dev/worktreeflow/internal/engine"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// WorktreeCleanOptions contains options for the wt-clean command
type WorktreeCleanOptions struct {
	Slug          string
	ForceDelete   bool
	WorktreeForce bool
	Preview       bool
	Confirm       bool
}

// WorktreeCleanAction removes a feature's worktree and branches
func WorktreeCleanAction(ctx *runtime.Context, opts WorktreeCleanOptions) error {
	splog := ctx.Splog

	result, err := ctx.Engine.CleanWorktree(ctx.Context, engine.CleanOptions{
		Slug:          opts.Slug,
		ForceDelete:   opts.ForceDelete,
		WorktreeForce: opts.WorktreeForce,
		Preview:       opts.Preview,
		Confirm:       opts.Confirm,
	})
	if err != nil && result == nil {
		return err
	}

	if result.Preview {
		splog.Info("Would:")
		for _, line := range result.Plan {
			splog.Info("  • %s", line)
		}
		if pr := result.Record.ReviewRequest; pr != nil {
			splog.Warn("Pull request #%d is %s: %s", pr.Number, pr.State, pr.HTMLURL)
		}
		return nil
	}

	for _, step := range result.Steps {
		if step.Err != nil {
			splog.Info("  %s %s: %v", tui.ColorRed("✗"), step.Description, step.Err)
		} else {
			splog.Info("  %s %s", tui.ColorGreen("✓"), step.Description)
		}
	}
	if err != nil {
		return err
	}

	if !result.Record.HasAnything() {
		splog.Info("Nothing left of %s; pruned stale references.", opts.Slug)
	} else {
		splog.Success("Cleaned up %s", opts.Slug)
	}
	dryRunNote(splog, ctx.Session.DryRun)
	return nil
}
