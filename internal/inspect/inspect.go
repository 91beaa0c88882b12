// Package inspect answers read-only questions about the repository, its
// worktrees, its remotes and the forge. Nothing here mutates state.
package inspect

import (
	"context"
	"os"

	"worktreeflow.dev/worktreeflow/internal/config"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/github"
)

// SyncStatus is how far local and target have moved apart
type SyncStatus struct {
	// Ahead is the number of commits in local that target lacks
	Ahead int
	// Behind is the number of commits in target that local lacks
	Behind int
}

// UpToDate reports whether local already contains target
func (s SyncStatus) UpToDate() bool {
	return s.Behind == 0
}

// Diverged reports whether both sides have commits the other lacks
func (s SyncStatus) Diverged() bool {
	return s.Ahead > 0 && s.Behind > 0
}

// Inspector performs idempotent reads
type Inspector struct {
	repo       *git.Repo
	forge      github.Client
	capability github.Capability
}

// New creates an Inspector. forge may be nil.
func New(repo *git.Repo, forge github.Client, capability github.Capability) *Inspector {
	return &Inspector{repo: repo, forge: forge, capability: capability}
}

// Repo returns the repository being inspected
func (i *Inspector) Repo() *git.Repo {
	return i.repo
}

// DirtyFiles returns uncommitted changes in dir
func (i *Inspector) DirtyFiles(ctx context.Context, dir string, includeUntracked bool) ([]git.FileStatus, error) {
	files, err := i.repo.Status(ctx, dir)
	if err != nil {
		return nil, err
	}
	if includeUntracked {
		return files, nil
	}
	tracked := files[:0]
	for _, f := range files {
		if f.Code != "??" {
			tracked = append(tracked, f)
		}
	}
	return tracked, nil
}

// IsDirty reports whether dir has uncommitted changes
func (i *Inspector) IsDirty(ctx context.Context, dir string, includeUntracked bool) (bool, error) {
	files, err := i.DirtyFiles(ctx, dir, includeUntracked)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// CommitsBetween counts the commits reachable from to but not from from
func (i *Inspector) CommitsBetween(ctx context.Context, from, to string) (int, error) {
	return i.repo.CountCommits(ctx, from, to)
}

// SyncStatus compares local against target
func (i *Inspector) SyncStatus(ctx context.Context, local, target string) (SyncStatus, error) {
	behind, err := i.repo.CountCommits(ctx, local, target)
	if err != nil {
		return SyncStatus{}, err
	}
	ahead, err := i.repo.CountCommits(ctx, target, local)
	if err != nil {
		return SyncStatus{}, err
	}
	return SyncStatus{Ahead: ahead, Behind: behind}, nil
}

// CanFastForward reports whether from can be fast-forwarded to to
func (i *Inspector) CanFastForward(from, to string) (bool, error) {
	fromSHA, err := i.repo.ResolveRef(from)
	if err != nil {
		return false, err
	}
	base, err := i.repo.MergeBase(from, to)
	if err != nil {
		return false, err
	}
	return base == fromSHA, nil
}

// WorktreeExists reports whether path exists on disk as a directory
func (i *Inspector) WorktreeExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsRegisteredWorktree reports whether git knows a worktree at path
func (i *Inspector) IsRegisteredWorktree(ctx context.Context, path string) (bool, *git.Worktree, error) {
	wt, err := i.repo.FindWorktree(ctx, path)
	if err != nil {
		return false, nil, err
	}
	return wt != nil, wt, nil
}

// RemoteBranchExists asks the remote whether it has branch
func (i *Inspector) RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error) {
	return i.repo.RemoteBranchExists(ctx, remote, branch)
}

// ForgeAvailable reports whether review request lookups can be made
func (i *Inspector) ForgeAvailable() bool {
	return i.forge != nil && i.capability.Available()
}

// FindOpenReviewRequest returns the open pull request from head against
// upstreamRepo, or nil
func (i *Inspector) FindOpenReviewRequest(ctx context.Context, upstreamRepo, head string) (*github.PullRequestInfo, error) {
	return i.findReviewRequest(ctx, upstreamRepo, head, github.StateOpen)
}

// FindReviewRequest returns the most recent pull request from head in any state
func (i *Inspector) FindReviewRequest(ctx context.Context, upstreamRepo, head string) (*github.PullRequestInfo, error) {
	return i.findReviewRequest(ctx, upstreamRepo, head, github.StateAll)
}

func (i *Inspector) findReviewRequest(ctx context.Context, upstreamRepo, head, state string) (*github.PullRequestInfo, error) {
	if err := i.capability.Require(); err != nil {
		return nil, err
	}
	return i.forge.FindPullRequest(ctx, config.Owner(upstreamRepo), config.RepoName(upstreamRepo), head, state)
}
