package actions

import (
	"worktreeflow.dev/worktreeflow/internal/engine"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// WorktreeNewOptions contains options for the wt-new command
type WorktreeNewOptions struct {
	Slug string
	Base string
}

// WorktreeNewAction syncs the base branch and creates a feature worktree
func WorktreeNewAction(ctx *runtime.Context, opts WorktreeNewOptions) error {
	splog := ctx.Splog

	result, err := ctx.Engine.CreateWorktree(ctx.Context, engine.CreateOptions{
		Slug: opts.Slug,
		Base: opts.Base,
	})
	if err != nil {
		return err
	}

	if result.Sync != nil && result.Sync.State == engine.SyncFastForwarded {
		splog.Info("Synced %s with upstream (%d new commit(s))", result.Sync.Base, result.Sync.Behind)
	}

	branch := tui.ColorBranchName(result.Branch, false)
	if result.AlreadyExisted {
		splog.Info("Worktree for %s already exists at %s", branch, result.Path)
	} else {
		splog.Success("Created worktree for %s at %s", branch, result.Path)
	}

	splog.Newline()
	splog.Info("Next steps:")
	splog.Info("  cd %s", tui.ColorCyan(result.Path))
	splog.Info("  # ... make changes and commit ...")
	splog.Info("  %s", tui.ColorCyan("wtf wt-publish "+result.Slug))
	dryRunNote(splog, ctx.Session.DryRun)
	return nil
}
