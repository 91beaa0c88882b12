package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"worktreeflow.dev/worktreeflow/internal/actions"
	"worktreeflow.dev/worktreeflow/internal/cli/common"
	"worktreeflow.dev/worktreeflow/internal/config"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set repository configuration",
		Long: `Get and set repository configuration values.

Values are stored in .git/.wtf_config and override the committed
.worktreeflow.yaml project file. WTF_UPSTREAM_REPO and WTF_BASE_BRANCH
override both.

Keys: ` + strings.Join(config.Keys(), ", ") + `

Examples:
  wtf config get upstream-repo
  wtf config set upstream-repo acme/widgets
  wtf config set draft-pr true`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigListCmd())

	return cmd
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Get a configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.RunInRepo(cmd, func(splog *tui.Splog, repoRoot string) error {
				return actions.ConfigGetAction(splog, repoRoot, args[0])
			})
		},
	}
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.RunInRepo(cmd, func(splog *tui.Splog, repoRoot string) error {
				return actions.ConfigSetAction(splog, repoRoot, args[0], args[1])
			})
		},
	}
}

// newConfigListCmd creates the config list command
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every configuration value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.RunInRepo(cmd, actions.ConfigListAction)
		},
	}
}
