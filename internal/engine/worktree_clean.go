package engine

import (
	"context"
	stderrors "errors"
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/guard"
	"worktreeflow.dev/worktreeflow/internal/inspect"
)

// CleanOptions configures CleanWorktree
type CleanOptions struct {
	Slug string
	// ForceDelete deletes the local branch even if it is not merged
	ForceDelete bool
	// WorktreeForce removes the worktree even with uncommitted changes
	WorktreeForce bool
	// Preview reports the plan without changing anything
	Preview bool
	// Confirm acknowledges the deletions, including of a branch with an open PR
	Confirm bool
}

// CleanStep is one independent cleanup action
type CleanStep struct {
	Description string
	Err         error
}

// CleanResult reports what CleanWorktree found and did
type CleanResult struct {
	Record *inspect.WorktreeRecord
	// Plan lists the deletions that apply, in order
	Plan    []string
	Preview bool
	Steps   []CleanStep
}

// Failed returns the steps that did not succeed
func (r *CleanResult) Failed() []CleanStep {
	var failed []CleanStep
	for _, step := range r.Steps {
		if step.Err != nil {
			failed = append(failed, step)
		}
	}
	return failed
}

// CleanWorktree removes a feature's worktree, local branch and remote
// branch. Once the gates pass, each step runs regardless of whether the
// previous one failed.
func (e *engineImpl) CleanWorktree(ctx context.Context, opts CleanOptions) (*CleanResult, error) {
	f, err := e.feature(opts.Slug)
	if err != nil {
		return nil, err
	}

	topo, err := e.Topology(ctx)
	if err != nil {
		return nil, err
	}
	record, err := e.inspector.Record(ctx, inspect.RecordOptions{
		Path:         f.path,
		Branch:       f.branch,
		OriginRemote: e.settings.OriginRemote,
		Topology:     topo,
	})
	if err != nil {
		return nil, err
	}

	result := &CleanResult{Record: record, Plan: e.cleanPlan(record)}
	if opts.Preview {
		result.Preview = true
		return result, nil
	}

	if record.Exists {
		if err := e.guard.InWorktreeGate(e.cwd, f.path); err != nil {
			return nil, err
		}
	}
	if record.HasUncommittedChanges && !opts.WorktreeForce {
		return nil, errors.NewPreconditionBlockedError(guard.ConditionDirtyTree,
			fmt.Sprintf("Worktree has uncommitted changes: %s", f.path),
			fmt.Sprintf("git -C %s stash", f.path),
			"re-run with --wt-force").
			WithDetails(statusLines(record.DirtyFiles)...)
	}
	if record.ReviewLookup == inspect.Unknown {
		e.log.Warn("Could not check %s for an open pull request", f.branch)
	}
	remedy := fmt.Sprintf("wtf wt-clean %s --confirm", f.slug)
	if err := e.guard.OpenReviewRequestGate(record.ReviewRequest, opts.Confirm, remedy); err != nil {
		return nil, err
	}
	if record.HasAnything() {
		err := e.guard.ConfirmDestructive(ctx, opts.Confirm, fmt.Sprintf("Cleaning %s", f.slug), nil, remedy)
		var blocked *errors.PreconditionBlockedError
		if stderrors.As(err, &blocked) {
			blocked.WithDetails(append([]string{"This will:"}, indent(result.Plan)...)...)
		}
		if err != nil {
			return nil, err
		}
	}

	e.runCleanSteps(ctx, f, record, opts, result)
	if failed := result.Failed(); len(failed) > 0 {
		return result, fmt.Errorf("%d of %d cleanup step(s) failed", len(failed), len(result.Steps))
	}
	return result, nil
}

func (e *engineImpl) runCleanSteps(ctx context.Context, f feature, record *inspect.WorktreeRecord, opts CleanOptions, result *CleanResult) {
	step := func(description string, fn func() error) {
		e.log.Info("%s...", description)
		err := fn()
		if err != nil {
			e.log.Warn("%s failed: %v", description, err)
		}
		result.Steps = append(result.Steps, CleanStep{Description: description, Err: err})
	}

	switch {
	case record.Exists && record.Registered:
		step("Remove worktree "+f.path, func() error {
			return e.repo.WorktreeRemove(ctx, f.path, opts.WorktreeForce)
		})
	case record.Exists:
		step("Remove worktree "+f.path, func() error {
			return fmt.Errorf("%s is not a registered worktree; remove it manually", f.path)
		})
	}
	if record.HasLocalBranch {
		step("Delete local branch "+f.branch, func() error {
			return e.repo.DeleteBranch(ctx, f.branch, opts.ForceDelete || e.settings.ForceDeleteBranch)
		})
	}
	if record.HasRemoteBranch {
		step(fmt.Sprintf("Delete remote branch %s", e.originRef(f.branch)), func() error {
			return e.repo.Push(ctx, e.settings.OriginRemote, git.PushOptions{
				Refspec:     f.branch,
				Delete:      true,
				Description: "Delete remote branch " + f.branch,
			})
		})
	}
	step("Prune remote references", func() error {
		return e.repo.RemotePrune(ctx, e.settings.OriginRemote)
	})
	step("Prune worktree metadata", func() error {
		return e.repo.WorktreePrune(ctx)
	})
}

func (e *engineImpl) cleanPlan(record *inspect.WorktreeRecord) []string {
	var plan []string
	if record.Exists {
		plan = append(plan, "Remove worktree at "+record.Path)
	}
	if record.HasLocalBranch {
		plan = append(plan, "Delete local branch "+record.Branch)
	}
	if record.HasRemoteBranch {
		plan = append(plan, "Delete remote branch "+e.originRef(record.Branch))
	}
	return append(plan, "Prune remote references")
}

func statusLines(files []git.FileStatus) []string {
	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, fmt.Sprintf("  %-2s %s", f.Code, f.Path))
	}
	return lines
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = "  - " + line
	}
	return out
}
