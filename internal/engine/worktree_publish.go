package engine

import (
	"context"

	"worktreeflow.dev/worktreeflow/internal/git"
)

// PublishOptions configures PublishWorktree
type PublishOptions struct {
	Slug string
}

// PublishResult reports where the branch was pushed from and to
type PublishResult struct {
	Branch string
	Dir    string
	Remote string
}

// PublishWorktree pushes the feature branch to origin and sets it as the
// branch's upstream
func (e *engineImpl) PublishWorktree(ctx context.Context, opts PublishOptions) (*PublishResult, error) {
	f, err := e.feature(opts.Slug)
	if err != nil {
		return nil, err
	}
	dir, err := e.workDir(ctx, f)
	if err != nil {
		return nil, err
	}

	e.log.Info("Pushing %s to %s...", f.branch, e.settings.OriginRemote)
	if err := e.repo.Push(ctx, e.settings.OriginRemote, git.PushOptions{
		Refspec:     f.branch,
		SetUpstream: true,
		Description: "Publish " + f.branch,
	}); err != nil {
		return nil, err
	}

	return &PublishResult{Branch: f.branch, Dir: dir, Remote: e.settings.OriginRemote}, nil
}
