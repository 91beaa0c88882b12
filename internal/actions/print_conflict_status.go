package actions

import (
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// PrintConflictStatus displays the files left in conflict by a rebase or
// merge of branch in dir, and how to get out of it
func PrintConflictStatus(ctx *runtime.Context, branch, dir, operation, stashDir string) {
	splog := ctx.Splog

	splog.Info("%s", tui.ColorRed(fmt.Sprintf("Hit conflict during %s of %s", operation, branch)))
	splog.Newline()

	unmerged, err := ctx.Repo.UnmergedFiles(ctx.Context, dir)
	if err == nil && len(unmerged) > 0 {
		splog.Info("%s", tui.ColorYellow("Unmerged files:"))
		for _, file := range unmerged {
			splog.Info("%s", tui.ColorRed(file))
		}
		splog.Newline()
	}

	splog.Info("%s", tui.ColorYellow("To finish the update:"))
	splog.Info("(1) resolve the listed conflicts in %s", tui.ColorCyan(dir))
	splog.Info("(2) mark them as resolved with %s", tui.ColorCyan("git add <resolved-files>"))
	splog.Info("(3) run %s", tui.ColorCyan(fmt.Sprintf("git %s --continue", operation)))
	splog.Info("It's safe to cancel with %s.", tui.ColorCyan(fmt.Sprintf("git %s --abort", operation)))
	if stashDir != "" {
		splog.Newline()
		splog.Warn("Your uncommitted changes are still stashed in %s; run %s when done.",
			stashDir, tui.ColorCyan("git stash pop"))
	}
}
