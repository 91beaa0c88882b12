package actions

import (
	"worktreeflow.dev/worktreeflow/internal/engine"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// WorktreePublishAction pushes a feature branch to the fork and sets its upstream
func WorktreePublishAction(ctx *runtime.Context, slug string) error {
	splog := ctx.Splog

	result, err := ctx.Engine.PublishWorktree(ctx.Context, engine.PublishOptions{Slug: slug})
	if err != nil {
		return err
	}

	splog.Success("Published %s to %s", tui.ColorBranchName(result.Branch, false), result.Remote)
	splog.Tip("Open a pull request with %s", tui.ColorCyan("wtf wt-pr "+slug))
	dryRunNote(splog, ctx.Session.DryRun)
	return nil
}
