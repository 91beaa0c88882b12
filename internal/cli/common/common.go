// Package common provides shared helper functions for CLI commands.
package common

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"worktreeflow.dev/worktreeflow/internal/config"
	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// Persistent flag names shared by every command
const (
	FlagDebug       = "debug"
	FlagDryRun      = "dry-run"
	FlagSaveHistory = "save-history"
	FlagInteractive = "interactive"
)

// reportedError marks an error that has already been printed with its remedies
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already printed by Run
func Reported(err error) bool {
	var reported *reportedError
	return stderrors.As(err, &reported)
}

// SessionFromFlags builds the session from the root command's persistent flags
func SessionFromFlags(cmd *cobra.Command) config.Session {
	flags := cmd.Root().PersistentFlags()
	session := config.Session{}
	session.Debug, _ = flags.GetBool(FlagDebug)
	session.DryRun, _ = flags.GetBool(FlagDryRun)
	session.SaveHistory, _ = flags.GetBool(FlagSaveHistory)
	session.Interactive, _ = flags.GetBool(FlagInteractive)
	if os.Getenv("DEBUG") != "" {
		session.Debug = true
	}
	return session
}

// NewSplog creates the session logger, writing to the log file unless it is disabled
func NewSplog(session config.Session) *tui.Splog {
	logFile := ""
	if !tui.LogFileDisabled() {
		logFile = tui.GetLogFilePath()
	}
	splog, err := tui.NewSplogWithConfig(logFile, os.Stdout)
	if err != nil {
		splog = tui.NewSplog()
		splog.Debug("Log file unavailable: %v", err)
	}
	splog.SetDebug(session.Debug)
	return splog
}

// Run is a helper that provides a runtime context to a command's execution function.
// Errors are printed with their remedies, and the audit log is saved when
// --save-history is set, whether or not the command succeeded.
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	session := SessionFromFlags(cmd)
	splog := NewSplog(session)
	defer func() { _ = splog.Close() }()

	if session.DryRun {
		splog.Info("%s", tui.ColorYellow("[dry-run] No changes will be made"))
	}

	ctx, err := runtime.GetContext(cmd.Context(), runtime.Options{Session: session, Splog: splog})
	if err != nil {
		return Report(splog, err)
	}

	runErr := fn(ctx)
	if session.SaveHistory {
		saveHistory(ctx)
	}
	if runErr != nil {
		return Report(splog, runErr)
	}
	return nil
}

// RunInRepo runs fn with the root of the repository containing the working
// directory, for commands that only touch configuration
func RunInRepo(cmd *cobra.Command, fn func(splog *tui.Splog, repoRoot string) error) error {
	session := SessionFromFlags(cmd)
	splog := NewSplog(session)
	defer func() { _ = splog.Close() }()

	cwd, err := os.Getwd()
	if err != nil {
		return Report(splog, fmt.Errorf("failed to get working directory: %w", err))
	}
	repo, err := git.Open(cmd.Context(), cwd, git.Options{Logger: splog})
	if err != nil {
		return Report(splog, err)
	}
	if err := fn(splog, repo.Root()); err != nil {
		return Report(splog, err)
	}
	return nil
}

// Report prints err with its details, backup branch and remedies, and marks it as reported
func Report(splog *tui.Splog, err error) error {
	splog.Error("%s", err.Error())
	for _, line := range errors.DetailsOf(err) {
		splog.Info("%s", line)
	}
	if output := errors.Output(err); output != "" {
		splog.Debug("%s", output)
	}
	if backup := errors.BackupOf(err); backup != "" {
		splog.Info("Backup branch: %s", tui.ColorCyan(backup))
	}
	if remedies := errors.RemediesOf(err); len(remedies) > 0 {
		splog.Tip("To continue:")
		for _, remedy := range remedies {
			splog.Info("  %s", tui.ColorCyan(remedy))
		}
	}
	return &reportedError{err: err}
}

func saveHistory(ctx *runtime.Context) {
	path := ctx.Session.HistoryPath()
	if !filepath.IsAbs(path) {
		path = filepath.Join(ctx.RepoRoot, path)
	}
	if err := ctx.Audit.Save(path); err != nil {
		ctx.Splog.Warn("Could not save command history: %v", err)
		return
	}
	ctx.Splog.Info("Command history saved to %s", path)
}

// CompleteSlugs is a cobra.ValidArgsFunction returning the slugs of the
// feature worktrees that exist
func CompleteSlugs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	repo, err := git.Open(cmd.Context(), cwd, git.Options{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	settings, err := config.Load(repo.Root())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	worktrees, err := repo.ListWorktrees(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return FeatureSlugs(worktrees, settings.FeaturePrefix), cobra.ShellCompDirectiveNoFileComp
}

// FeatureSlugs returns the slug of every worktree on a prefix branch
func FeatureSlugs(worktrees []git.Worktree, prefix string) []string {
	var slugs []string
	for _, wt := range worktrees {
		if slug, ok := strings.CutPrefix(wt.Branch, prefix); ok && slug != "" {
			slugs = append(slugs, slug)
		}
	}
	return slugs
}
