package cli

import (
	"github.com/spf13/cobra"

	"worktreeflow.dev/worktreeflow/internal/actions"
	"worktreeflow.dev/worktreeflow/internal/cli/common"
)

// newCheckRepoCmd creates the check-repo command
func newCheckRepoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-repo",
		Short: "Verify we're inside a Git repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, actions.CheckRepoAction)
		},
	}
}

// newCheckOriginCmd creates the check-origin command
func newCheckOriginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-origin",
		Short: "Verify 'origin' remote exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, actions.CheckOriginAction)
		},
	}
}

// newCheckUpstreamCmd creates the check-upstream command
func newCheckUpstreamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-upstream",
		Short: "Verify 'upstream' remote exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, actions.CheckUpstreamAction)
		},
	}
}
