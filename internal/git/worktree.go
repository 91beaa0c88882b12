package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Worktree is one entry of git worktree list --porcelain
type Worktree struct {
	Path     string
	Head     string
	Branch   string
	Detached bool
	Bare     bool
}

// ListWorktrees returns every worktree registered with the repository,
// the main working tree first.
func (r *Repo) ListWorktrees(ctx context.Context) ([]Worktree, error) {
	output, err := r.read(ctx, "", "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}
	return parseWorktreeList(output), nil
}

func parseWorktreeList(output string) []Worktree {
	var worktrees []Worktree
	var current *Worktree
	flush := func() {
		if current != nil {
			worktrees = append(worktrees, *current)
			current = nil
		}
	}

	for _, line := range splitLines(output) {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case current == nil:
			continue
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "detached":
			current.Detached = true
		case line == "bare":
			current.Bare = true
		}
	}
	flush()
	return worktrees
}

// FindWorktree returns the registered worktree at path, if any
func (r *Repo) FindWorktree(ctx context.Context, path string) (*Worktree, error) {
	worktrees, err := r.ListWorktrees(ctx)
	if err != nil {
		return nil, err
	}
	want := canonicalPath(path)
	for i := range worktrees {
		if canonicalPath(worktrees[i].Path) == want {
			return &worktrees[i], nil
		}
	}
	return nil, nil
}

// canonicalPath cleans path and resolves symlinks when the path exists
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// WorktreeAdd creates a worktree at path. When newBranch is set a new branch
// is created from startPoint; otherwise the existing branch is checked out.
func (r *Repo) WorktreeAdd(ctx context.Context, path, branch, startPoint string, newBranch bool) error {
	args := []string{"worktree", "add"}
	if newBranch {
		args = append(args, "-b", branch, path, startPoint)
	} else {
		args = append(args, path, branch)
	}

	if _, err := r.mutate(ctx, "", fmt.Sprintf("Create worktree for %s", branch), args...); err != nil {
		return fmt.Errorf("failed to add worktree at %s: %w", path, err)
	}
	return nil
}

// WorktreeRemove removes the worktree at path
func (r *Repo) WorktreeRemove(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	if _, err := r.mutate(ctx, "", "Remove worktree", args...); err != nil {
		return fmt.Errorf("failed to remove worktree at %s: %w", path, err)
	}
	return nil
}

// WorktreePrune drops administrative data for worktrees whose directory is gone
func (r *Repo) WorktreePrune(ctx context.Context) error {
	if _, err := r.mutate(ctx, "", "Prune worktree metadata", "worktree", "prune"); err != nil {
		return fmt.Errorf("failed to prune worktrees: %w", err)
	}
	return nil
}
