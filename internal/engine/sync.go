package engine

import (
	"context"
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/branchutil"
	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/guard"
)

// SyncState is where a sync ended up
type SyncState string

const (
	// SyncUpToDate means base already contained upstream
	SyncUpToDate SyncState = "upToDate"
	// SyncFastForwarded means base moved forward to upstream
	SyncFastForwarded SyncState = "fastForwarded"
	// SyncForced means base was reset to upstream, discarding local commits
	SyncForced SyncState = "forced"
)

// forceSyncRemedy is offered whenever base can no longer be fast-forwarded
const forceSyncRemedy = "wtf sync-main-force --confirm"

// SyncOptions configures SyncMain and ZeroCheckoutSync
type SyncOptions struct {
	// Base overrides the configured base branch
	Base string
}

// ForceSyncOptions configures ForceSync
type ForceSyncOptions struct {
	Base string
	// Confirm acknowledges that local commits on base will be discarded
	Confirm bool
	// Force discards uncommitted changes instead of blocking
	Force bool
}

// SyncResult reports the outcome of a sync
type SyncResult struct {
	State SyncState
	Base  string
	// Ahead and Behind are measured against upstream before any change
	Ahead  int
	Behind int
	// Incoming are the upstream commits base received
	Incoming []git.Commit
	// Lost are the local commits a forced sync discarded
	Lost []git.Commit
	// Backup is the backup branch taken before a forced sync
	Backup string
	Pushed bool
}

// SyncMain fast-forwards base to upstream and pushes it to origin. A
// diverged base is never merged; the caller is pointed at ForceSync.
func (e *engineImpl) SyncMain(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	base := e.base(opts.Base)
	if err := branchutil.ValidateBranchName(base); err != nil {
		return nil, err
	}
	root := e.repo.Root()
	target := e.upstreamRef(base)
	result := &SyncResult{Base: base}

	e.log.Debug("Checking %s for uncommitted changes", root)
	if _, err := e.guard.StashGate(ctx, root, guard.StashOptions{Operation: "sync"}); err != nil {
		return nil, err
	}

	e.log.Info("Fetching %s/%s...", e.settings.UpstreamRemote, base)
	if err := e.repo.Fetch(ctx, e.settings.UpstreamRemote, base); err != nil {
		return nil, err
	}

	status, err := e.inspector.SyncStatus(ctx, base, target)
	if err != nil {
		return nil, err
	}
	result.Ahead, result.Behind = status.Ahead, status.Behind
	if status.UpToDate() {
		result.State = SyncUpToDate
		return result, nil
	}

	if err := e.guard.DivergenceGate(ctx, base, target, forceSyncRemedy); err != nil {
		return nil, err
	}

	result.Incoming, err = e.repo.CommitsBetween(ctx, base, target)
	if err != nil {
		return nil, err
	}

	if err := e.switchTo(ctx, root, base); err != nil {
		return nil, err
	}
	e.log.Info("Fast-forwarding %s to %s (%d new commit(s))...", base, target, status.Behind)
	if err := e.repo.ResetHard(ctx, root, target); err != nil {
		return nil, err
	}
	result.State = SyncFastForwarded

	e.log.Info("Pushing %s to %s...", base, e.settings.OriginRemote)
	if err := e.repo.Push(ctx, e.settings.OriginRemote, git.PushOptions{
		Refspec:     base,
		Description: fmt.Sprintf("Push %s to %s", base, e.settings.OriginRemote),
	}); err != nil {
		return result, errors.WithFallback(err, fmt.Sprintf("git push %s %s", e.settings.OriginRemote, base))
	}
	result.Pushed = true
	return result, nil
}

// ForceSync resets base to upstream, discarding local commits, and
// force-pushes it to origin with a lease on the origin tip observed before
// the reset. A backup branch is taken first.
func (e *engineImpl) ForceSync(ctx context.Context, opts ForceSyncOptions) (*SyncResult, error) {
	base := e.base(opts.Base)
	if err := branchutil.ValidateBranchName(base); err != nil {
		return nil, err
	}
	root := e.repo.Root()
	target := e.upstreamRef(base)
	result := &SyncResult{Base: base}

	if e.repo.RefExists(target) {
		lost, err := e.repo.CommitsBetween(ctx, target, base)
		if err != nil {
			return nil, err
		}
		result.Lost = lost
	}

	description := fmt.Sprintf("Resetting %s to %s", base, target)
	if err := e.guard.ConfirmDestructive(ctx, opts.Confirm, description, result.Lost, forceSyncRemedy); err != nil {
		return nil, err
	}

	if !opts.Force {
		if _, err := e.guard.StashGate(ctx, root, guard.StashOptions{Operation: "sync", Flag: "--force"}); err != nil {
			return nil, err
		}
	}
	if err := e.switchTo(ctx, root, base); err != nil {
		return nil, err
	}

	if e.settings.CreateBackups {
		backup, err := e.guard.Backup(ctx, base)
		if err != nil {
			return nil, err
		}
		result.Backup = backup
		e.log.Info("Created backup branch %s", backup)
	}

	if err := e.repo.Fetch(ctx, e.settings.UpstreamRemote, base); err != nil {
		return nil, errors.WithBackup(err, result.Backup)
	}
	if err := e.repo.Fetch(ctx, e.settings.OriginRemote); err != nil {
		return nil, errors.WithBackup(err, result.Backup)
	}

	status, err := e.inspector.SyncStatus(ctx, base, target)
	if err != nil {
		return nil, errors.WithBackup(err, result.Backup)
	}
	result.Ahead, result.Behind = status.Ahead, status.Behind

	observed, err := e.observedTip(e.settings.OriginRemote, base)
	if err != nil {
		return nil, errors.WithBackup(err, result.Backup)
	}

	e.log.Info("Resetting %s to %s...", base, target)
	if err := e.repo.ResetHard(ctx, root, target); err != nil {
		return nil, errors.WithBackup(err, result.Backup)
	}
	result.State = SyncForced

	e.log.Info("Force-pushing %s to %s...", base, e.settings.OriginRemote)
	if err := e.repo.Push(ctx, e.settings.OriginRemote, git.PushOptions{
		Refspec:     base,
		LeaseRef:    "refs/heads/" + base,
		LeaseSHA:    observed,
		Description: fmt.Sprintf("Force-push %s to %s", base, e.settings.OriginRemote),
	}); err != nil {
		err = errors.WithFallback(err, "git fetch "+e.settings.OriginRemote, forceSyncRemedy)
		return result, errors.WithBackup(err, result.Backup)
	}
	result.Pushed = true
	return result, nil
}

// ZeroCheckoutSync moves origin's base to upstream's base by pushing the
// remote-tracking ref directly. Nothing is checked out.
func (e *engineImpl) ZeroCheckoutSync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	base := e.base(opts.Base)
	if err := branchutil.ValidateBranchName(base); err != nil {
		return nil, err
	}
	origin := e.originRef(base)
	target := e.upstreamRef(base)
	result := &SyncResult{Base: base}

	e.log.Info("Fetching %s and %s...", e.settings.OriginRemote, e.settings.UpstreamRemote)
	if err := e.repo.Fetch(ctx, e.settings.OriginRemote); err != nil {
		return nil, err
	}
	if err := e.repo.Fetch(ctx, e.settings.UpstreamRemote); err != nil {
		return nil, err
	}

	hasLocal, err := e.repo.LocalBranchExists(base)
	if err != nil {
		return nil, err
	}
	if hasLocal {
		unpushed, err := e.repo.CommitsBetween(ctx, origin, base)
		if err != nil {
			return nil, err
		}
		if len(unpushed) > 0 {
			return nil, errors.NewPreconditionBlockedError(guard.ConditionUnpushedCommits,
				fmt.Sprintf("Local %s has %d unpushed commit(s) that would be left behind", base, len(unpushed)),
				fmt.Sprintf("git push %s %s", e.settings.OriginRemote, base),
				"wtf sync-main",
				forceSyncRemedy).
				WithDetails(commitDetails(unpushed)...)
		}
		if err := e.guard.DivergenceGate(ctx, base, target, forceSyncRemedy); err != nil {
			return nil, err
		}
	}

	if err := e.guard.DivergenceGate(ctx, origin, target, forceSyncRemedy); err != nil {
		return nil, err
	}

	result.Incoming, err = e.repo.CommitsBetween(ctx, origin, target)
	if err != nil {
		return nil, err
	}
	result.Behind = len(result.Incoming)
	if result.Behind == 0 {
		result.State = SyncUpToDate
		return result, nil
	}

	e.log.Info("Pushing %s to %s/%s...", target, e.settings.OriginRemote, base)
	if err := e.repo.Push(ctx, e.settings.OriginRemote, git.PushOptions{
		Refspec:     fmt.Sprintf("refs/remotes/%s:refs/heads/%s", target, base),
		Description: fmt.Sprintf("Fast-forward %s to %s", origin, target),
	}); err != nil {
		return nil, errors.WithFallback(err, "wtf sync-main")
	}
	result.State = SyncFastForwarded
	result.Pushed = true
	return result, nil
}

// switchTo checks out branch in dir unless it is already checked out there
func (e *engineImpl) switchTo(ctx context.Context, dir, branch string) error {
	current, err := e.repo.CurrentBranch(ctx, dir)
	if err != nil {
		return err
	}
	if current == branch {
		return nil
	}
	e.log.Info("Switching to %s...", branch)
	return e.repo.Checkout(ctx, dir, branch)
}

// observedTip returns the remote-tracking tip of remote/branch, or "" when
// the remote has no such branch. An empty lease value asks git to refuse
// the push if the branch appeared in the meantime.
func (e *engineImpl) observedTip(remote, branch string) (string, error) {
	exists, err := e.repo.RemoteTrackingExists(remote, branch)
	if err != nil || !exists {
		return "", err
	}
	return e.repo.ResolveRef(git.RemoteRef(remote, branch))
}

func commitDetails(commits []git.Commit) []string {
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, fmt.Sprintf("  %s %s", c.ShortSHA(), c.Subject))
	}
	return lines
}
