package git

import (
	"context"
	"fmt"
	"strings"
)

// StashPush stashes tracked and untracked changes in dir. It reports whether
// a stash entry was created.
func (r *Repo) StashPush(ctx context.Context, dir, message string) (bool, error) {
	output, err := r.mutate(ctx, dir, "Stash local changes", "stash", "push", "-u", "-m", message)
	if err != nil {
		return false, fmt.Errorf("failed to stash changes: %w", err)
	}
	return !strings.Contains(output, "No local changes to save"), nil
}

// StashPop restores the most recent stash entry in dir
func (r *Repo) StashPop(ctx context.Context, dir string) error {
	if _, err := r.mutate(ctx, dir, "Restore stashed changes", "stash", "pop"); err != nil {
		return fmt.Errorf("failed to restore stashed changes: %w", err)
	}
	return nil
}
