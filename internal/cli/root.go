package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"worktreeflow.dev/worktreeflow/internal/cli/common"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wtf",
		Short: "wtf manages a fork-based feature workflow with git worktrees",
		Long: `wtf manages a fork-based feature workflow with git worktrees.

Every feature gets its own branch and worktree, is published to your fork
(origin) and proposed to the original repository (upstream).

Common workflow:

  wtf sync-main              # Update fork's main
  wtf wt-new issue-123       # Create worktree
  # ... make changes ...
  wtf wt-publish issue-123   # Push to fork
  wtf wt-pr issue-123        # Create PR
  wtf wt-update issue-123    # Rebase on upstream
  wtf wt-clean issue-123     # Clean up after merge`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			tui.InitColors()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolP(common.FlagDebug, "d", false, "Enable debug output (shows git commands)")
	flags.BoolP(common.FlagDryRun, "n", false, "Preview commands without execution")
	flags.Bool(common.FlagSaveHistory, false, "Save command history to .wtf_history.json")
	flags.Bool(common.FlagInteractive, false, "Ask for confirmation on the terminal instead of requiring --confirm")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Repository Setup Commands:"},
		&cobra.Group{ID: groupSync, Title: "Sync Commands:"},
		&cobra.Group{ID: groupWorktree, Title: "Worktree Commands:"},
		&cobra.Group{ID: groupCheck, Title: "Check Commands:"},
	)

	addToGroup(rootCmd, groupSetup, newDoctorCmd(), newUpstreamAddCmd(), newForkSetupCmd())
	addToGroup(rootCmd, groupSync, newSyncMainCmd(), newSyncMainForceCmd(), newZeroFFSyncCmd())
	addToGroup(rootCmd, groupWorktree,
		newWtNewCmd(), newWtPublishCmd(), newWtPRCmd(), newWtUpdateCmd(),
		newWtCleanCmd(), newWtListCmd(), newWtStatusCmd())
	addToGroup(rootCmd, groupCheck, newCheckRepoCmd(), newCheckOriginCmd(), newCheckUpstreamCmd())

	rootCmd.AddCommand(newTutorialCmd())
	rootCmd.AddCommand(newQuickstartCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}

const (
	groupSetup    = "setup"
	groupSync     = "sync"
	groupWorktree = "worktree"
	groupCheck    = "check"
)

func addToGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = group
		root.AddCommand(cmd)
	}
}
