package cli

import (
	"github.com/spf13/cobra"

	"worktreeflow.dev/worktreeflow/internal/actions"
	"worktreeflow.dev/worktreeflow/internal/cli/common"
	"worktreeflow.dev/worktreeflow/internal/runtime"
)

// newWtNewCmd creates the wt-new command
func newWtNewCmd() *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "wt-new <slug>",
		Short: "Create worktree + new feature branch from fork/main",
		Long: `Sync the base branch with upstream, then create the feature branch
feat/<slug> and its worktree at ../wt/<repo>/<slug>.

Running it again for an existing worktree is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.WorktreeNewAction(ctx, actions.WorktreeNewOptions{Slug: args[0], Base: base})
			})
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch to branch from (default: configured base branch)")

	return cmd
}

// newWtPublishCmd creates the wt-publish command
func newWtPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "wt-publish <slug>",
		Short:             "Push worktree feature branch to origin and set upstream",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteSlugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.WorktreePublishAction(ctx, args[0])
			})
		},
	}

	return cmd
}

// newWtPRCmd creates the wt-pr command
func newWtPRCmd() *cobra.Command {
	var opts actions.WorktreePROptions

	cmd := &cobra.Command{
		Use:   "wt-pr <slug>",
		Short: "Open PR from fork feature to upstream/main (requires GitHub access)",
		Long: `Open a pull request from <fork owner>:feat/<slug> to the upstream base branch.

The branch is pushed first if origin is missing it or some of its commits.
If a pull request already exists for the branch it is shown instead.
The title defaults to the last commit subject and the body to the configured
template listing the branch's commits.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteSlugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Slug = args[0]
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.WorktreePRAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Base, "base", "", "Base branch for PR (default: configured base branch)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "PR title (auto-generated if not provided)")
	cmd.Flags().StringVar(&opts.Body, "body", "", "PR body (auto-generated if not provided)")
	cmd.Flags().BoolVar(&opts.Draft, "draft", false, "Create as draft PR")
	cmd.Flags().BoolVarP(&opts.Edit, "edit", "e", false, "Edit the PR body in your editor before creating it")

	return cmd
}

// newWtUpdateCmd creates the wt-update command
func newWtUpdateCmd() *cobra.Command {
	var opts actions.WorktreeUpdateOptions

	cmd := &cobra.Command{
		Use:   "wt-update <slug>",
		Short: "Rebase worktree feature on upstream/main and push",
		Long: `Rebase the feature branch onto the upstream base branch (or merge it with
--merge) and push the result to origin.

A backup branch is created first when the branch has commits of its own.
On conflicts the rebase or merge is left in progress for you to resolve.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteSlugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Slug = args[0]
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.WorktreeUpdateAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Base, "base", "", "Base branch name (default: configured base branch)")
	cmd.Flags().BoolVar(&opts.Stash, "stash", false, "Auto-stash uncommitted changes")
	cmd.Flags().BoolVar(&opts.Preview, "dry-run-preview", false, "Preview what would happen")
	cmd.Flags().BoolVar(&opts.Merge, "merge", false, "Use merge instead of rebase")
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, "Skip backup branch creation")

	return cmd
}

// newWtCleanCmd creates the wt-clean command
func newWtCleanCmd() *cobra.Command {
	var opts actions.WorktreeCleanOptions

	cmd := &cobra.Command{
		Use:   "wt-clean <slug>",
		Short: "Remove worktree and prune branches",
		Long: `Remove the feature's worktree, its local and remote branches, and prune
stale references.

Refuses to run from inside the worktree, and asks for --confirm before deleting
anything or when the branch still has an open pull request. Every step is
attempted even if an earlier one fails.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteSlugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Slug = args[0]
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.WorktreeCleanAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.ForceDelete, "force-delete", false, "Force delete branch even if not merged")
	cmd.Flags().BoolVar(&opts.WorktreeForce, "wt-force", false, "Force remove worktree with uncommitted changes")
	cmd.Flags().BoolVar(&opts.Preview, "dry-run-preview", false, "Preview what would be deleted")
	cmd.Flags().BoolVar(&opts.Confirm, "confirm", false, "Skip confirmation prompts")

	return cmd
}

// newWtListCmd creates the wt-list command
func newWtListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wt-list",
		Short: "List all worktrees with their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, actions.WorktreeListAction)
		},
	}

	return cmd
}

// newWtStatusCmd creates the wt-status command
func newWtStatusCmd() *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:               "wt-status <slug>",
		Short:             "Show comprehensive status for a worktree",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteSlugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.WorktreeStatusAction(ctx, actions.WorktreeStatusOptions{Slug: args[0], Base: base})
			})
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch name (default: configured base branch)")

	return cmd
}
