package cli

import (
	"github.com/spf13/cobra"

	"worktreeflow.dev/worktreeflow/internal/actions"
	"worktreeflow.dev/worktreeflow/internal/cli/common"
	"worktreeflow.dev/worktreeflow/internal/runtime"
)

// newUpstreamAddCmd creates the upstream-add command
func newUpstreamAddCmd() *cobra.Command {
	var (
		repo   string
		update bool
	)

	cmd := &cobra.Command{
		Use:   "upstream-add",
		Short: "Add or update upstream remote (auto-detects SSH/HTTPS)",
		Long: `Add the upstream remote pointing at the original repository.

The URL scheme follows origin: SSH when origin uses SSH, HTTPS otherwise.
An existing upstream pointing elsewhere is only changed with --update.
Also sets pull.ff=only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.UpstreamAddAction(ctx, actions.UpstreamAddOptions{
					Repo:   repo,
					Update: update,
				})
			})
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "Override upstream repo (format: owner/repo)")
	cmd.Flags().BoolVar(&update, "update", false, "Force update existing upstream")

	return cmd
}

// newForkSetupCmd creates the fork-setup command
func newForkSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fork-setup",
		Short: "Create fork if needed and set up remotes (requires GitHub access)",
		Long: `Create your fork of the upstream repository if it does not exist yet, then
point origin at your fork and upstream at the original.

A clone of the original repository has its origin renamed to upstream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, actions.ForkSetupAction)
		},
	}

	return cmd
}
