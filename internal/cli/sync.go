package cli

import (
	"github.com/spf13/cobra"

	"worktreeflow.dev/worktreeflow/internal/actions/sync"
	"worktreeflow.dev/worktreeflow/internal/cli/common"
	"worktreeflow.dev/worktreeflow/internal/runtime"
)

// newSyncMainCmd creates the sync-main command
func newSyncMainCmd() *cobra.Command {
	var (
		base    string
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "sync-main",
		Short: "FF-only: update fork's main from upstream/main",
		Long: `Fast-forward your local base branch to upstream's and push it to origin.

Refuses when the working tree has uncommitted changes or when the base branch
has diverged from upstream; use sync-main-force to discard local commits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return sync.Action(ctx, sync.Options{Base: base, Confirm: confirm})
			})
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch name (default: configured base branch)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Skip confirmation prompts")

	return cmd
}

// newSyncMainForceCmd creates the sync-main-force command
func newSyncMainForceCmd() *cobra.Command {
	var (
		base    string
		confirm bool
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "sync-main-force",
		Short: "RECOVERY: reset fork main to upstream and force-push (creates backup)",
		Long: `Reset your base branch to upstream's, discarding local commits, and
force-push it to origin.

A backup branch is created first. The push only succeeds if origin's base
branch has not moved since it was fetched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return sync.ForceAction(ctx, sync.Options{Base: base, Confirm: confirm, Force: force})
			})
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch name (default: configured base branch)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm destructive operation")
	cmd.Flags().BoolVar(&force, "force", false, "Force even with uncommitted changes")

	return cmd
}

// newZeroFFSyncCmd creates the zero-ffsync command
func newZeroFFSyncCmd() *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "zero-ffsync",
		Short: "FF-only push (no checkout): origin/main <- upstream/main",
		Long: `Fast-forward origin's base branch to upstream's without checking anything out.

Refuses when the local base branch has commits that are not on origin or has
diverged from upstream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return sync.ZeroCheckoutAction(ctx, sync.Options{Base: base})
			})
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch name (default: configured base branch)")

	return cmd
}
