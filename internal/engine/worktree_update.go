package engine

import (
	"context"
	stderrors "errors"
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/guard"
)

// UpdateState is where an update ended up
type UpdateState string

const (
	// UpdateUpToDate means the branch already contained upstream
	UpdateUpToDate UpdateState = "upToDate"
	// UpdatePreview means only the plan was computed
	UpdatePreview UpdateState = "preview"
	// UpdateUpdated means the branch was rebased or merged and pushed
	UpdateUpdated UpdateState = "updated"
	// UpdateConflicted means the rewrite stopped on conflicts
	UpdateConflicted UpdateState = "conflicted"
)

// UpdateOptions configures UpdateWorktree
type UpdateOptions struct {
	Slug string
	Base string
	// Stash stashes uncommitted changes instead of blocking
	Stash bool
	// Preview reports the plan without changing anything
	Preview bool
	// Merge merges upstream instead of rebasing onto it
	Merge    bool
	NoBackup bool
}

// UpdateResult reports the outcome of UpdateWorktree
type UpdateResult struct {
	State    UpdateState
	Branch   string
	Dir      string
	Strategy string
	Ahead    int
	Behind   int
	// Replayed are the branch's own commits, newest first
	Replayed []git.Commit
	Backup   string
	// StashLeftIn names the directory whose stash was left in place
	// because the rewrite stopped on conflicts
	StashLeftIn string
	Pushed      bool
}

// UpdateWorktree brings a feature branch up to date with upstream by
// rebasing (or merging) and pushes the result to origin.
func (e *engineImpl) UpdateWorktree(ctx context.Context, opts UpdateOptions) (*UpdateResult, error) {
	f, err := e.feature(opts.Slug)
	if err != nil {
		return nil, err
	}
	base := e.base(opts.Base)
	target := e.upstreamRef(base)

	result := &UpdateResult{Branch: f.branch, Strategy: "rebase"}
	if opts.Merge {
		result.Strategy = "merge"
	}

	result.Dir, err = e.workDir(ctx, f)
	if err != nil {
		return nil, err
	}

	e.log.Info("Fetching %s/%s...", e.settings.UpstreamRemote, base)
	if err := e.repo.Fetch(ctx, e.settings.UpstreamRemote, base); err != nil {
		return nil, err
	}

	status, err := e.inspector.SyncStatus(ctx, f.branch, target)
	if err != nil {
		return nil, err
	}
	result.Ahead, result.Behind = status.Ahead, status.Behind
	if status.UpToDate() {
		result.State = UpdateUpToDate
		return result, nil
	}

	result.Replayed, err = e.repo.CommitsBetween(ctx, target, f.branch)
	if err != nil {
		return nil, err
	}
	if opts.Preview {
		result.State = UpdatePreview
		return result, nil
	}

	stash, err := e.guard.StashGate(ctx, result.Dir, guard.StashOptions{
		AutoStash:        opts.Stash || e.settings.AutoStash,
		Operation:        "update of " + f.branch,
		Flag:             "--stash",
		IncludeUntracked: true,
	})
	if err != nil {
		return nil, err
	}

	if status.Ahead > 0 && !opts.NoBackup && e.settings.CreateBackups {
		result.Backup, err = e.guard.Backup(ctx, f.branch)
		if err != nil {
			return nil, e.restoreAfter(ctx, stash, err)
		}
		e.log.Info("Created backup branch %s", result.Backup)
	}

	if opts.Merge {
		e.log.Info("Merging %s into %s...", target, f.branch)
		err = e.repo.Merge(ctx, result.Dir, f.branch, target)
	} else {
		e.log.Info("Rebasing %s onto %s...", f.branch, target)
		err = e.repo.Rebase(ctx, result.Dir, f.branch, target)
	}
	if err != nil {
		if stderrors.Is(err, errors.ErrConflictDuringRewrite) {
			result.State = UpdateConflicted
			result.StashLeftIn = stash.Dir()
			return result, errors.WithBackup(err, result.Backup)
		}
		return nil, errors.WithBackup(e.restoreAfter(ctx, stash, err), result.Backup)
	}

	push := git.PushOptions{Refspec: f.branch}
	if !opts.Merge {
		lease, err := e.observedTip(e.settings.OriginRemote, f.branch)
		if err != nil {
			return nil, errors.WithBackup(e.restoreAfter(ctx, stash, err), result.Backup)
		}
		push.LeaseRef = "refs/heads/" + f.branch
		push.LeaseSHA = lease
	}

	e.log.Info("Pushing %s to %s...", f.branch, e.settings.OriginRemote)
	if err := e.repo.Push(ctx, e.settings.OriginRemote, push); err != nil {
		err = errors.WithFallback(err,
			"git fetch "+e.settings.OriginRemote,
			fmt.Sprintf("git log %s..%s", f.branch, e.originRef(f.branch)),
			fmt.Sprintf("wtf wt-update %s", f.slug))
		result.State = UpdateUpdated
		return result, errors.WithBackup(e.restoreAfter(ctx, stash, err), result.Backup)
	}
	result.Pushed = true
	result.State = UpdateUpdated

	if err := stash.Restore(ctx); err != nil {
		return result, errors.WithBackup(err, result.Backup)
	}
	return result, nil
}

// restoreAfter pops stash after a failure and returns the original error.
// A failed pop is logged rather than masking cause.
func (e *engineImpl) restoreAfter(ctx context.Context, stash *guard.Stash, cause error) error {
	if err := stash.Restore(ctx); err != nil {
		e.log.Warn("Could not restore stashed changes in %s: %v", stash.Dir(), err)
	}
	return cause
}
