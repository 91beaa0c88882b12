package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	wtferrors "worktreeflow.dev/worktreeflow/internal/errors"
)

// Commit is a commit hash and subject line
type Commit struct {
	SHA     string
	Subject string
}

// ShortSHA returns the abbreviated hash
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// RemoteRef returns the short name of a remote-tracking branch, e.g. upstream/main
func RemoteRef(remote, branch string) string {
	return remote + "/" + branch
}

// ResolveRef resolves a branch, remote-tracking ref or commit-ish to a hash
func (r *Repo) ResolveRef(ref string) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return "", err
	}
	return commit.Hash.String(), nil
}

func resolveCommit(repo *gogit.Repository, ref string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, wtferrors.NewUnresolvableRefError(ref, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, wtferrors.NewUnresolvableRefError(ref, err)
	}
	return commit, nil
}

// RefExists reports whether ref resolves to a commit
func (r *Repo) RefExists(ref string) bool {
	_, err := r.ResolveRef(ref)
	return err == nil
}

// IsAncestor checks if ancestor is reachable from descendant.
// A commit is considered its own ancestor.
func (r *Repo) IsAncestor(ancestor, descendant string) (bool, error) {
	repo, err := r.open()
	if err != nil {
		return false, err
	}

	ancestorCommit, err := resolveCommit(repo, ancestor)
	if err != nil {
		return false, err
	}
	descendantCommit, err := resolveCommit(repo, descendant)
	if err != nil {
		return false, err
	}

	if ancestorCommit.Hash == descendantCommit.Hash {
		return true, nil
	}
	return ancestorCommit.IsAncestor(descendantCommit)
}

// MergeBase returns the best common ancestor of two refs
func (r *Repo) MergeBase(ref1, ref2 string) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}

	commit1, err := resolveCommit(repo, ref1)
	if err != nil {
		return "", err
	}
	commit2, err := resolveCommit(repo, ref2)
	if err != nil {
		return "", err
	}

	mergeBases, err := commit1.MergeBase(commit2)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base: %w", err)
	}
	if len(mergeBases) == 0 {
		return "", fmt.Errorf("no merge base found between %s and %s", ref1, ref2)
	}
	return mergeBases[0].Hash.String(), nil
}

// CountCommits returns the number of commits reachable from head but not from base
func (r *Repo) CountCommits(ctx context.Context, base, head string) (int, error) {
	if err := r.requireRefs(base, head); err != nil {
		return 0, err
	}
	output, err := r.read(ctx, "", "rev-list", "--count", base+".."+head)
	if err != nil {
		return 0, fmt.Errorf("failed to count commits %s..%s: %w", base, head, err)
	}
	count, err := strconv.Atoi(output)
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", output, err)
	}
	return count, nil
}

// CommitsBetween lists the commits reachable from head but not from base, newest first
func (r *Repo) CommitsBetween(ctx context.Context, base, head string) ([]Commit, error) {
	if err := r.requireRefs(base, head); err != nil {
		return nil, err
	}
	output, err := r.read(ctx, "", "log", "--format=%H%x00%s", base+".."+head)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits %s..%s: %w", base, head, err)
	}

	return parseCommits(output), nil
}

func (r *Repo) requireRefs(refs ...string) error {
	for _, ref := range refs {
		if _, err := r.ResolveRef(ref); err != nil {
			return err
		}
	}
	return nil
}

// LocalBranchExists reports whether refs/heads/<branch> exists
func (r *Repo) LocalBranchExists(branch string) (bool, error) {
	return r.referenceExists(plumbing.NewBranchReferenceName(branch))
}

// RemoteTrackingExists reports whether refs/remotes/<remote>/<branch> exists
func (r *Repo) RemoteTrackingExists(remote, branch string) (bool, error) {
	return r.referenceExists(plumbing.NewRemoteReferenceName(remote, branch))
}

func (r *Repo) referenceExists(name plumbing.ReferenceName) (bool, error) {
	repo, err := r.open()
	if err != nil {
		return false, err
	}
	_, err = repo.Reference(name, true)
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return true, nil
}

// CurrentBranch returns the branch checked out in dir, or "" when HEAD is detached
func (r *Repo) CurrentBranch(ctx context.Context, dir string) (string, error) {
	output, err := r.read(ctx, dir, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		if exitCode(err) == 1 {
			return "", nil
		}
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	return output, nil
}

// Log returns up to n commits reachable from rev, newest first
func (r *Repo) Log(ctx context.Context, rev string, n int) ([]Commit, error) {
	if err := r.requireRefs(rev); err != nil {
		return nil, err
	}
	output, err := r.read(ctx, "", "log", "--format=%H%x00%s", "-n", strconv.Itoa(n), rev)
	if err != nil {
		return nil, fmt.Errorf("failed to read log of %s: %w", rev, err)
	}
	return parseCommits(output), nil
}

func parseCommits(output string) []Commit {
	commits := []Commit{}
	for _, line := range splitLines(output) {
		sha, subject, _ := strings.Cut(line, "\x00")
		if sha == "" {
			continue
		}
		commits = append(commits, Commit{SHA: sha, Subject: subject})
	}
	return commits
}
