package actions

import (
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// printRemotes renders the configured remotes as a table
func printRemotes(splog *tui.Splog, remotes []git.Remote) {
	if len(remotes) == 0 {
		splog.Info("No remotes configured.")
		return
	}
	rows := make([][]string, 0, len(remotes))
	for _, remote := range remotes {
		rows = append(rows, []string{remote.Name, remote.URL})
	}
	splog.Page(tui.RenderTable([]string{"Remote", "URL"}, rows))
}

// printCommits lists commits one per line as "sha subject"
func printCommits(splog *tui.Splog, commits []git.Commit) {
	for _, c := range commits {
		splog.Info("  %s %s", tui.ColorDim(c.ShortSHA()), c.Subject)
	}
}

func dryRunNote(splog *tui.Splog, dryRun bool) {
	if dryRun {
		splog.Tip("Dry run: no changes were made. Re-run without --dry-run to apply them.")
	}
}
