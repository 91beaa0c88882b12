package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"

	wtferrors "worktreeflow.dev/worktreeflow/internal/errors"
)

// Remote is a configured remote and its fetch URL
type Remote struct {
	Name string
	URL  string
}

// Remotes returns the configured remotes sorted by name
func (r *Repo) Remotes() ([]Remote, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to read remotes: %w", err)
	}

	out := make([]Remote, 0, len(remotes))
	for _, remote := range remotes {
		cfg := remote.Config()
		url := ""
		if len(cfg.URLs) > 0 {
			url = cfg.URLs[0]
		}
		out = append(out, Remote{Name: cfg.Name, URL: url})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RemoteURL returns the URL of a remote and whether the remote exists
func (r *Repo) RemoteURL(name string) (string, bool, error) {
	repo, err := r.open()
	if err != nil {
		return "", false, err
	}
	remote, err := repo.Remote(name)
	if stderrors.Is(err, gogit.ErrRemoteNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", true, nil
	}
	return urls[0], true, nil
}

// RemoteBranchExists asks the remote itself whether it has branch.
// This goes over the network rather than trusting remote-tracking refs.
func (r *Repo) RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error) {
	_, err := r.read(ctx, "", "ls-remote", "--exit-code", "--heads", remote, branch)
	if err == nil {
		return true, nil
	}
	if exitCode(err) == 2 {
		return false, nil
	}
	return false, wtferrors.NewRemoteOperationError("ls-remote", remote, branch, err, "git ls-remote --heads "+remote)
}

// Fetch fetches from remote, optionally restricted to refspecs
func (r *Repo) Fetch(ctx context.Context, remote string, refspecs ...string) error {
	args := append([]string{"fetch", remote}, refspecs...)
	if _, err := r.mutate(ctx, "", fmt.Sprintf("Fetch from %s", remote), args...); err != nil {
		return wtferrors.NewRemoteOperationError("fetch", remote, "", err, "git fetch "+remote)
	}
	return nil
}

// RemotePrune prunes stale remote-tracking branches
func (r *Repo) RemotePrune(ctx context.Context, remote string) error {
	if _, err := r.mutate(ctx, "", fmt.Sprintf("Prune stale %s branches", remote), "remote", "prune", remote); err != nil {
		return wtferrors.NewRemoteOperationError("prune", remote, "", err, "git remote prune "+remote)
	}
	return nil
}

// RemoteAdd adds a remote
func (r *Repo) RemoteAdd(ctx context.Context, name, url string) error {
	if _, err := r.mutate(ctx, "", fmt.Sprintf("Add remote %s", name), "remote", "add", name, url); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", name, err)
	}
	return nil
}

// RemoteSetURL changes the URL of an existing remote
func (r *Repo) RemoteSetURL(ctx context.Context, name, url string) error {
	if _, err := r.mutate(ctx, "", fmt.Sprintf("Update URL of remote %s", name), "remote", "set-url", name, url); err != nil {
		return fmt.Errorf("failed to update remote %s: %w", name, err)
	}
	return nil
}

// RemoteRename renames a remote
func (r *Repo) RemoteRename(ctx context.Context, oldName, newName string) error {
	if _, err := r.mutate(ctx, "", fmt.Sprintf("Rename remote %s to %s", oldName, newName), "remote", "rename", oldName, newName); err != nil {
		return fmt.Errorf("failed to rename remote %s: %w", oldName, err)
	}
	return nil
}

// ConfigSet sets a repository-local git config value
func (r *Repo) ConfigSet(ctx context.Context, key, value string) error {
	if _, err := r.mutate(ctx, "", fmt.Sprintf("Set %s", key), "config", key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// RemoteRemove deletes a remote and its remote-tracking branches
func (r *Repo) RemoteRemove(ctx context.Context, name string) error {
	if _, err := r.mutate(ctx, "", fmt.Sprintf("Remove remote %s", name), "remote", "remove", name); err != nil {
		return fmt.Errorf("failed to remove remote %s: %w", name, err)
	}
	return nil
}
