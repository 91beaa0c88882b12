package engine

import (
	"context"
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/guard"
)

// CreateOptions configures CreateWorktree
type CreateOptions struct {
	Slug string
	// Base is the branch new feature branches start from
	Base string
}

// CreateResult reports what CreateWorktree did
type CreateResult struct {
	Slug   string
	Branch string
	Path   string
	// AlreadyExisted is set when the worktree was already in place
	AlreadyExisted bool
	// BranchCreated is set when a new branch was created from Base
	BranchCreated bool
	Sync          *SyncResult
}

// CreateWorktree syncs base and adds a worktree for the feature. Running it
// again for a feature that already has its worktree is a no-op.
func (e *engineImpl) CreateWorktree(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	f, err := e.feature(opts.Slug)
	if err != nil {
		return nil, err
	}
	base := e.base(opts.Base)
	result := &CreateResult{Slug: f.slug.String(), Branch: f.branch, Path: f.path}

	result.Sync, err = e.SyncMain(ctx, SyncOptions{Base: base})
	if err != nil {
		return nil, err
	}

	registered, wt, err := e.inspector.IsRegisteredWorktree(ctx, f.path)
	if err != nil {
		return nil, err
	}

	if e.inspector.WorktreeExists(f.path) {
		switch {
		case registered && wt.Branch == f.branch:
			result.AlreadyExisted = true
			return result, nil
		case registered:
			return nil, errors.NewPreconditionBlockedError(guard.ConditionConflictingPath,
				fmt.Sprintf("Worktree at %s has %s checked out, not %s", f.path, describeHead(wt.Branch), f.branch),
				fmt.Sprintf("git worktree remove %s", f.path))
		default:
			return nil, errors.NewPreconditionBlockedError(guard.ConditionConflictingPath,
				fmt.Sprintf("Directory exists but is not a git worktree: %s", f.path),
				"remove the directory or choose a different slug")
		}
	}
	if registered {
		return nil, errors.NewPreconditionBlockedError(guard.ConditionConflictingPath,
			fmt.Sprintf("A worktree is registered at %s but its directory is missing", f.path),
			"git worktree prune")
	}

	hasBranch, err := e.repo.LocalBranchExists(f.branch)
	if err != nil {
		return nil, err
	}
	if hasBranch {
		e.log.Info("Branch %s already exists, using it for the worktree", f.branch)
	} else {
		e.log.Info("Creating branch %s from %s", f.branch, base)
		result.BranchCreated = true
	}

	if err := e.repo.WorktreeAdd(ctx, f.path, f.branch, base, !hasBranch); err != nil {
		return nil, err
	}
	return result, nil
}

func describeHead(branch string) string {
	if branch == "" {
		return "a detached HEAD"
	}
	return branch
}
