package engine

import (
	"context"
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/branchutil"
	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/guard"
)

// feature is a validated slug with its derived branch and worktree path
type feature struct {
	slug   branchutil.FeatureSlug
	branch string
	path   string
}

func (e *engineImpl) feature(raw string) (feature, error) {
	slug, branch, err := branchutil.ParseFeature(raw, e.settings.FeaturePrefix)
	if err != nil {
		return feature{}, err
	}
	return feature{
		slug:   slug,
		branch: branch,
		path:   slug.WorktreePath(e.repo.Root(), e.settings.WorktreeBase),
	}, nil
}

// workDir picks where to operate on f: the current directory when it has
// f's branch checked out, otherwise f's worktree.
func (e *engineImpl) workDir(ctx context.Context, f feature) (string, error) {
	current, err := e.repo.CurrentBranch(ctx, e.cwd)
	if err == nil && current == f.branch {
		return e.cwd, nil
	}
	if e.inspector.WorktreeExists(f.path) {
		return f.path, nil
	}
	return "", errors.NewPreconditionBlockedError(guard.ConditionMissingWorktree,
		fmt.Sprintf("Worktree not found at %s", f.path),
		fmt.Sprintf("wtf wt-new %s", f.slug))
}
