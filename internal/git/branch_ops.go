package git

import (
	"context"
	"fmt"
)

// Checkout switches dir to branch
func (r *Repo) Checkout(ctx context.Context, dir, branch string) error {
	if _, err := r.mutate(ctx, dir, fmt.Sprintf("Switch to %s", branch), "checkout", branch); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	return nil
}

// ResetHard moves the current branch in dir to ref and discards local changes
func (r *Repo) ResetHard(ctx context.Context, dir, ref string) error {
	if _, err := r.mutate(ctx, dir, fmt.Sprintf("Reset to %s", ref), "reset", "--hard", ref); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", ref, err)
	}
	return nil
}

// CreateBranch creates branch at startPoint without checking it out
func (r *Repo) CreateBranch(ctx context.Context, branch, startPoint, description string) error {
	if description == "" {
		description = fmt.Sprintf("Create branch %s", branch)
	}
	if _, err := r.mutate(ctx, "", description, "branch", branch, startPoint); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	return nil
}

// DeleteBranch deletes a local branch. Without force git refuses to delete
// a branch that is not merged.
func (r *Repo) DeleteBranch(ctx context.Context, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := r.mutate(ctx, "", fmt.Sprintf("Delete local branch %s", branch), "branch", flag, branch); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	return nil
}
