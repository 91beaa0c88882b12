// Package sync reports on keeping the fork's base branch in line with upstream.
package sync

import (
	"worktreeflow.dev/worktreeflow/internal/engine"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// Options contains options for the sync commands
type Options struct {
	Base string
	// Confirm skips the confirmation for the force variant
	Confirm bool
	// Force allows the force variant to discard uncommitted changes
	Force bool
}

// Action fast-forwards the fork's base branch to upstream and pushes it
func Action(ctx *runtime.Context, opts Options) error {
	result, err := ctx.Engine.SyncMain(ctx.Context, engine.SyncOptions{Base: opts.Base})
	if err != nil {
		return err
	}
	report(ctx, result)
	return nil
}

// ForceAction resets the fork's base branch to upstream and force-pushes it
func ForceAction(ctx *runtime.Context, opts Options) error {
	splog := ctx.Splog
	splog.Warn("%s", tui.Bold("RECOVERY: this resets your fork's base branch to upstream and force-pushes it."))

	result, err := ctx.Engine.ForceSync(ctx.Context, engine.ForceSyncOptions{
		Base:    opts.Base,
		Confirm: opts.Confirm,
		Force:   opts.Force,
	})
	if err != nil {
		return err
	}
	report(ctx, result)
	if len(result.Lost) > 0 {
		splog.Warn("Discarded %d commit(s) from %s:", len(result.Lost), result.Base)
		for _, c := range result.Lost {
			splog.Info("  %s %s", tui.ColorDim(c.ShortSHA()), c.Subject)
		}
	}
	if result.Backup != "" {
		splog.Tip("Your previous %s is saved as %s", result.Base, tui.ColorCyan(result.Backup))
	}
	return nil
}

// ZeroCheckoutAction moves origin's base branch to upstream without checking it out
func ZeroCheckoutAction(ctx *runtime.Context, opts Options) error {
	result, err := ctx.Engine.ZeroCheckoutSync(ctx.Context, engine.SyncOptions{Base: opts.Base})
	if err != nil {
		return err
	}
	report(ctx, result)
	return nil
}

func report(ctx *runtime.Context, result *engine.SyncResult) {
	splog := ctx.Splog
	base := tui.ColorBranchName(result.Base, false)

	switch result.State {
	case engine.SyncUpToDate:
		if result.Ahead > 0 {
			splog.Success("%s is up to date with upstream (%d local commit(s) ahead)", base, result.Ahead)
		} else {
			splog.Success("%s is up to date with upstream", base)
		}
	case engine.SyncFastForwarded:
		splog.Success("Fast-forwarded %s by %d commit(s)", base, result.Behind)
		for _, c := range result.Incoming {
			splog.Info("  %s %s", tui.ColorDim(c.ShortSHA()), c.Subject)
		}
	case engine.SyncForced:
		splog.Success("Reset %s to upstream", base)
	}

	if result.Pushed {
		splog.Info("Pushed %s to %s", base, ctx.Settings.OriginRemote)
	}
	if ctx.Session.DryRun {
		splog.Tip("Dry run: no changes were made. Re-run without --dry-run to apply them.")
	}
}
