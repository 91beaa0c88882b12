package actions

import (
	"worktreeflow.dev/worktreeflow/internal/engine"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// WorktreeUpdateOptions contains options for the wt-update command
type WorktreeUpdateOptions struct {
	Slug     string
	Base     string
	Stash    bool
	Preview  bool
	Merge    bool
	NoBackup bool
}

// WorktreeUpdateAction rebases (or merges) a feature branch onto upstream and pushes it
func WorktreeUpdateAction(ctx *runtime.Context, opts WorktreeUpdateOptions) error {
	splog := ctx.Splog

	result, err := ctx.Engine.UpdateWorktree(ctx.Context, engine.UpdateOptions{
		Slug:     opts.Slug,
		Base:     opts.Base,
		Stash:    opts.Stash,
		Preview:  opts.Preview,
		Merge:    opts.Merge,
		NoBackup: opts.NoBackup,
	})
	if result != nil && result.State == engine.UpdateConflicted {
		PrintConflictStatus(ctx, result.Branch, result.Dir, result.Strategy, result.StashLeftIn)
	}
	if err != nil {
		return err
	}

	branch := tui.ColorBranchName(result.Branch, false)
	switch result.State {
	case engine.UpdateUpToDate:
		splog.Success("%s is up to date with upstream", branch)
		if result.Ahead > 0 {
			splog.Tip("%d commit(s) ready to publish: %s", result.Ahead, tui.ColorCyan("wtf wt-publish "+opts.Slug))
		}
	case engine.UpdatePreview:
		splog.Info("%s is %d commit(s) behind upstream and %d ahead.", branch, result.Behind, result.Ahead)
		splog.Info("Would %s %d commit(s):", result.Strategy, len(result.Replayed))
		printCommits(splog, result.Replayed)
		if result.Ahead > 0 && !opts.NoBackup && ctx.Settings.CreateBackups {
			splog.Info("A backup branch would be created first.")
		}
	case engine.UpdateUpdated:
		verb := "Rebased"
		if result.Strategy == "merge" {
			verb = "Merged upstream into"
		}
		splog.Success("%s %s (%d upstream commit(s))", verb, branch, result.Behind)
		if result.Pushed {
			splog.Info("Pushed %s to %s", result.Branch, ctx.Settings.OriginRemote)
		}
	}
	if result.Backup != "" {
		splog.Tip("Backup of the previous tip: %s", tui.ColorCyan(result.Backup))
	}
	dryRunNote(splog, ctx.Session.DryRun)
	return nil
}
