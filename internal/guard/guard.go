// Package guard holds the safety gates every mutating operation passes
// through before it touches history, plus backup branch creation.
package guard

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/github"
	"worktreeflow.dev/worktreeflow/internal/inspect"
)

// Gate conditions reported on PreconditionBlockedError
const (
	ConditionDirtyTree         = "dirty-tree"
	ConditionDiverged          = "diverged"
	ConditionUnconfirmed       = "unconfirmed"
	ConditionInsideWorktree    = "inside-worktree"
	ConditionOpenReviewRequest = "open-review-request"
	ConditionConflictingPath   = "conflicting-path"
	ConditionUnpushedCommits   = "unpushed-commits"
	ConditionMissingWorktree   = "missing-worktree"
	ConditionRemoteMismatch    = "remote-mismatch"
)

// BackupTimeFormat is the timestamp suffix of backup branches
const BackupTimeFormat = "20060102-150405"

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Guard evaluates safety conditions. Every gate either returns nil or a
// PreconditionBlockedError, and no gate mutates anything except the stash
// gate with auto-stash enabled.
type Guard struct {
	repo         *git.Repo
	inspector    *inspect.Inspector
	backupPrefix string
	confirmer    Confirmer

	// Now is the clock used for backup names
	Now func() time.Time
}

// New creates a Guard. confirmer may be nil, in which case confirmation must
// be given up front with a flag.
func New(repo *git.Repo, inspector *inspect.Inspector, backupPrefix string, confirmer Confirmer) *Guard {
	return &Guard{
		repo:         repo,
		inspector:    inspector,
		backupPrefix: backupPrefix,
		confirmer:    confirmer,
		Now:          time.Now,
	}
}

// StashOptions configures the stash gate
type StashOptions struct {
	// AutoStash stashes instead of blocking
	AutoStash bool
	// Operation names what is about to happen, for the stash message
	Operation string
	// Flag is the command-line flag that enables auto-stash, if the command has one
	Flag string
	// IncludeUntracked counts untracked files as dirty
	IncludeUntracked bool
}

// Stash is a stash entry created by the stash gate
type Stash struct {
	repo *git.Repo
	dir  string
}

// Restore pops the stash. It is safe to call on a nil Stash.
func (s *Stash) Restore(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.repo.StashPop(ctx, s.dir)
}

// Dir returns the directory the stash was taken in
func (s *Stash) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

// StashGate blocks on a dirty tree in dir, or stashes it when auto-stash is on.
// The returned Stash is nil when nothing was stashed.
func (g *Guard) StashGate(ctx context.Context, dir string, opts StashOptions) (*Stash, error) {
	files, err := g.inspector.DirtyFiles(ctx, dir, opts.IncludeUntracked)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	if !opts.AutoStash {
		remedies := []string{"git stash", `git commit -am "WIP"`}
		if opts.Flag != "" {
			remedies = append(remedies, "re-run with "+opts.Flag)
		}
		return nil, errors.NewPreconditionBlockedError(ConditionDirtyTree,
			fmt.Sprintf("Uncommitted changes in %s", dir), remedies...).
			WithDetails(fileLines(files)...)
	}

	created, err := g.repo.StashPush(ctx, dir, fmt.Sprintf("wtf auto-stash before %s", opts.Operation))
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}
	return &Stash{repo: g.repo, dir: dir}, nil
}

// DivergenceGate blocks when local is not an ancestor of target. There is
// no merge fallback; the remedy is an explicit force sync.
func (g *Guard) DivergenceGate(ctx context.Context, local, target, remedy string) error {
	ok, err := g.repo.IsAncestor(local, target)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	blocked := errors.NewPreconditionBlockedError(ConditionDiverged,
		fmt.Sprintf("%s has diverged from %s", local, target), remedy)
	if commits, err := g.repo.CommitsBetween(ctx, target, local); err == nil {
		blocked.WithDetails(commitLines("Local commits not in "+target+":", commits)...)
	}
	return blocked
}

// ConfirmDestructive requires confirmation before an operation that can
// lose commits. Without it the commits that would be lost are listed and
// the operation is blocked.
func (g *Guard) ConfirmDestructive(ctx context.Context, confirmed bool, description string, lost []git.Commit, remedy string) error {
	if confirmed {
		return nil
	}

	if g.confirmer != nil {
		message := description + "?"
		if len(lost) > 0 {
			message = fmt.Sprintf("%s? %d commit(s) will be discarded", description, len(lost))
		}
		ok, err := g.confirmer.Confirm(ctx, message)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	blocked := errors.NewPreconditionBlockedError(ConditionUnconfirmed,
		fmt.Sprintf("%s requires confirmation", description), remedy)
	if len(lost) > 0 {
		blocked.WithDetails(commitLines("Commits that would be lost:", lost)...)
	}
	return blocked
}

// InWorktreeGate refuses to remove a worktree the process is standing in
func (g *Guard) InWorktreeGate(cwd, worktreePath string) error {
	if !isWithin(cwd, worktreePath) {
		return nil
	}
	return errors.NewPreconditionBlockedError(ConditionInsideWorktree,
		fmt.Sprintf("Cannot remove the worktree you are currently in: %s", worktreePath),
		"cd "+g.repo.Root())
}

// OpenReviewRequestGate refuses to delete a branch that has an open pull
// request unless confirmed
func (g *Guard) OpenReviewRequestGate(pr *github.PullRequestInfo, confirmed bool, remedy string) error {
	if pr == nil || confirmed {
		return nil
	}
	return errors.NewPreconditionBlockedError(ConditionOpenReviewRequest,
		fmt.Sprintf("Branch has open PR #%d: %s", pr.Number, pr.HTMLURL), remedy)
}

// Backup creates a backup branch at the current tip of branch and returns its name
func (g *Guard) Backup(ctx context.Context, branch string) (string, error) {
	name := g.backupPrefix + branch + "-" + g.Now().Format(BackupTimeFormat)
	for n := 2; ; n++ {
		exists, err := g.repo.LocalBranchExists(name)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		name = fmt.Sprintf("%s%s-%s-%d", g.backupPrefix, branch, g.Now().Format(BackupTimeFormat), n)
	}

	if err := g.repo.CreateBranch(ctx, name, branch, fmt.Sprintf("Back up %s", branch)); err != nil {
		return "", fmt.Errorf("failed to create backup of %s: %w", branch, err)
	}
	return name, nil
}

// isWithin reports whether path equals root or lies below it, after
// resolving symlinks on both sides
func isWithin(path, root string) bool {
	path = resolve(path)
	root = resolve(root)
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func fileLines(files []git.FileStatus) []string {
	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, fmt.Sprintf("%-2s %s", f.Code, f.Path))
	}
	return lines
}

func commitLines(header string, commits []git.Commit) []string {
	lines := []string{header}
	for _, c := range commits {
		lines = append(lines, fmt.Sprintf("  %s %s", c.ShortSHA(), c.Subject))
	}
	return lines
}
