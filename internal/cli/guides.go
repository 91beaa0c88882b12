package cli

import (
	"os"

	"github.com/spf13/cobra"

	"worktreeflow.dev/worktreeflow/internal/actions"
	"worktreeflow.dev/worktreeflow/internal/cli/common"
	"worktreeflow.dev/worktreeflow/internal/git"
)

// newTutorialCmd creates the tutorial command
func newTutorialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tutorial",
		Short: "Show detailed tutorial for all workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			splog := common.NewSplog(common.SessionFromFlags(cmd))
			defer func() { _ = splog.Close() }()

			// The tutorial works outside a repository too
			repoName := "{repo}"
			if cwd, err := os.Getwd(); err == nil {
				if repo, err := git.Open(cmd.Context(), cwd, git.Options{}); err == nil {
					repoName = repo.Name()
				}
			}
			actions.TutorialAction(splog, repoName)
			return nil
		},
	}
}

// newQuickstartCmd creates the quickstart command
func newQuickstartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "Show quickstart guide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			splog := common.NewSplog(common.SessionFromFlags(cmd))
			defer func() { _ = splog.Close() }()
			actions.QuickstartAction(splog)
			return nil
		},
	}
}
