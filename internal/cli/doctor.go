package cli

import (
	"github.com/spf13/cobra"

	"worktreeflow.dev/worktreeflow/internal/actions/doctor"
	"worktreeflow.dev/worktreeflow/internal/cli/common"
	"worktreeflow.dev/worktreeflow/internal/runtime"
)

// newDoctorCmd creates the doctor command
func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Print detected settings and sanity-check environment",
		Long: `Print the detected repository settings and check the environment.

The doctor command shows:
  - Repository: root, name, upstream repository and fork owner
  - Remotes: origin (your fork) and upstream URLs
  - Tools: git, the GitHub CLI and API token availability
  - Working tree: current branch and uncommitted changes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return doctor.Action(ctx, doctor.Options{})
			})
		},
	}

	return cmd
}
