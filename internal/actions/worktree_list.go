package actions

import (
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// WorktreeListAction lists every registered worktree
func WorktreeListAction(ctx *runtime.Context) error {
	splog := ctx.Splog

	worktrees, err := ctx.Engine.ListWorktrees(ctx.Context)
	if err != nil {
		return err
	}

	splog.Info("%s", tui.ColorCyan("=== Git Worktrees ==="))
	splog.Newline()
	splog.Page(tui.RenderTable([]string{"Path", "Branch", "Head"}, worktreeRows(worktrees)))
	return nil
}

func worktreeRows(worktrees []git.Worktree) [][]string {
	rows := make([][]string, 0, len(worktrees))
	for _, wt := range worktrees {
		branch := wt.Branch
		switch {
		case wt.Bare:
			branch = "(bare)"
		case wt.Detached || branch == "":
			branch = "(detached)"
		}
		head := wt.Head
		if len(head) > 7 {
			head = head[:7]
		}
		rows = append(rows, []string{wt.Path, branch, head})
	}
	return rows
}
