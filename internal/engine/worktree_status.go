package engine

import (
	"context"
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/github"
	"worktreeflow.dev/worktreeflow/internal/guard"
	"worktreeflow.dev/worktreeflow/internal/inspect"
)

// recentCommitCount is how many commits the status report lists
const recentCommitCount = 5

// StatusOptions configures WorktreeStatus
type StatusOptions struct {
	Slug string
	Base string
}

// StatusReport is everything wt-status shows for one feature
type StatusReport struct {
	Slug   string
	Branch string
	Path   string
	Base   string
	Head   *git.Commit

	BehindUpstream int
	AheadUpstream  int
	// Unpushed is only meaningful when Published is set
	Unpushed  int
	Published bool

	Modified   int
	Untracked  int
	DirtyFiles []git.FileStatus

	PR       *github.PullRequestInfo
	PRLookup inspect.Lookup

	Recent      []git.Commit
	Suggestions []string
}

// WorktreeStatus gathers the sync, working tree and pull request state of
// a feature. Fetch and forge failures degrade the report instead of
// failing it.
func (e *engineImpl) WorktreeStatus(ctx context.Context, opts StatusOptions) (*StatusReport, error) {
	f, err := e.feature(opts.Slug)
	if err != nil {
		return nil, err
	}
	base := e.base(opts.Base)
	report := &StatusReport{Slug: f.slug.String(), Branch: f.branch, Path: f.path, Base: base}

	if !e.inspector.WorktreeExists(f.path) {
		return nil, errors.NewPreconditionBlockedError(guard.ConditionMissingWorktree,
			fmt.Sprintf("Worktree not found at %s", f.path),
			fmt.Sprintf("wtf wt-new %s", f.slug))
	}

	for _, remote := range []string{e.settings.UpstreamRemote, e.settings.OriginRemote} {
		if err := e.repo.Fetch(ctx, remote); err != nil {
			e.log.Debug("Fetch of %s failed: %v", remote, err)
		}
	}

	recent, err := e.repo.Log(ctx, f.branch, recentCommitCount)
	if err != nil {
		return nil, err
	}
	report.Recent = recent
	if len(recent) > 0 {
		report.Head = &recent[0]
	}

	if target := e.upstreamRef(base); e.repo.RefExists(target) {
		status, err := e.inspector.SyncStatus(ctx, f.branch, target)
		if err != nil {
			return nil, err
		}
		report.BehindUpstream, report.AheadUpstream = status.Behind, status.Ahead
	}

	report.Published, err = e.repo.RemoteTrackingExists(e.settings.OriginRemote, f.branch)
	if err != nil {
		return nil, err
	}
	if report.Published {
		report.Unpushed, err = e.repo.CountCommits(ctx, e.originRef(f.branch), f.branch)
		if err != nil {
			return nil, err
		}
	}

	report.DirtyFiles, err = e.inspector.DirtyFiles(ctx, f.path, true)
	if err != nil {
		return nil, err
	}
	for _, file := range report.DirtyFiles {
		if file.Code == "??" {
			report.Untracked++
		} else {
			report.Modified++
		}
	}

	if topo, err := e.Topology(ctx); err == nil && topo.HasForkOwner() && e.inspector.ForgeAvailable() {
		pr, err := e.inspector.FindReviewRequest(ctx, topo.UpstreamRepo, topo.HeadRef(f.branch))
		if err == nil {
			report.PR = pr
			report.PRLookup = inspect.Known
		} else {
			e.log.Debug("Pull request lookup failed: %v", err)
		}
	}

	report.Suggestions = suggestions(report)
	return report, nil
}

func suggestions(r *StatusReport) []string {
	var out []string
	if r.BehindUpstream > 0 {
		out = append(out, fmt.Sprintf("Update with upstream: wtf wt-update %s", r.Slug))
	}
	if r.Unpushed > 0 || (!r.Published && r.AheadUpstream > 0) {
		out = append(out, fmt.Sprintf("Push changes: wtf wt-publish %s", r.Slug))
	}
	if len(r.DirtyFiles) > 0 {
		out = append(out, "Commit changes: git add -A && git commit")
	}
	if r.PR == nil && r.AheadUpstream > 0 {
		out = append(out, fmt.Sprintf("Create PR: wtf wt-pr %s", r.Slug))
	}
	return out
}

// ListWorktrees returns every registered worktree, the main one first
func (e *engineImpl) ListWorktrees(ctx context.Context) ([]git.Worktree, error) {
	return e.repo.ListWorktrees(ctx)
}
