package git

import (
	"context"
	"fmt"
	"strings"

	wtferrors "worktreeflow.dev/worktreeflow/internal/errors"
)

// Rebase rebases the branch checked out in dir onto onto.
// Conflicts are returned as a ConflictError and the rebase is left in progress.
func (r *Repo) Rebase(ctx context.Context, dir, branch, onto string) error {
	_, err := r.mutate(ctx, dir, fmt.Sprintf("Rebase %s onto %s", branch, onto), "rebase", onto)
	if err != nil {
		return r.rewriteError(ctx, dir, branch, "rebase", err)
	}
	return nil
}

// Merge merges ref into the branch checked out in dir
func (r *Repo) Merge(ctx context.Context, dir, branch, ref string) error {
	_, err := r.mutate(ctx, dir, fmt.Sprintf("Merge %s into %s", ref, branch), "merge", "--no-edit", ref)
	if err != nil {
		return r.rewriteError(ctx, dir, branch, "merge", err)
	}
	return nil
}

func (r *Repo) rewriteError(ctx context.Context, dir, branch, operation string, err error) error {
	if strings.Contains(wtferrors.Output(err), "CONFLICT") {
		return wtferrors.NewConflictError(branch, operation, err)
	}
	unmerged, uerr := r.UnmergedFiles(ctx, dir)
	if uerr == nil && len(unmerged) > 0 {
		return wtferrors.NewConflictError(branch, operation, err)
	}
	return fmt.Errorf("%s of %s failed: %w", operation, branch, err)
}

// UnmergedFiles returns the paths with unresolved conflicts in dir
func (r *Repo) UnmergedFiles(ctx context.Context, dir string) ([]string, error) {
	output, err := r.read(ctx, dir, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list unmerged files: %w", err)
	}
	return splitLines(output), nil
}
