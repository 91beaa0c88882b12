package actions

import (
	"fmt"
	"strings"

	"worktreeflow.dev/worktreeflow/internal/tui"
)

type guideSection struct {
	title string
	lines []string
}

// cmd renders a wtf invocation in the guide's command color
func cmd(s string) string {
	return tui.ColorGreen(s)
}

func renderGuide(title string, sections []guideSection) string {
	var b strings.Builder
	b.WriteString(tui.Bold(tui.ColorCyan(title)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(title)))
	b.WriteString("\n")
	for _, section := range sections {
		b.WriteString("\n")
		b.WriteString(tui.Bold(section.title))
		b.WriteString("\n")
		for _, line := range section.lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// TutorialAction shows the walkthrough for every workflow
func TutorialAction(splog *tui.Splog, repoName string) {
	splog.Page(renderGuide("Git Workflow Tutorial", []guideSection{
		{"0) First-time setup (fork & clone)", []string{
			"If you do NOT have a fork locally yet:",
			fmt.Sprintf("  • Create your fork: %s", cmd("wtf fork-setup")),
			"    (Requires GitHub CLI and login: gh auth login)",
			"",
			"If you ALREADY have the fork cloned:",
			fmt.Sprintf("  • Add upstream: %s", cmd("wtf upstream-add")),
			fmt.Sprintf("  • Check setup: %s", cmd("wtf doctor")),
		}},
		{"1) Keep your fork's main synced", []string{
			fmt.Sprintf("• Full sync: %s", cmd("wtf sync-main")),
			fmt.Sprintf("• Quick sync: %s", cmd("wtf zero-ffsync")),
			fmt.Sprintf("• Recovery: %s", cmd("wtf sync-main-force --confirm")),
		}},
		{"2) Worktree-based feature branches", []string{
			fmt.Sprintf("A. Create: %s", cmd("wtf wt-new issue-199")),
			fmt.Sprintf("B. Work in: %s", cmd(fmt.Sprintf("cd ../wt/%s/issue-199", repoName))),
			fmt.Sprintf("C. Publish: %s", cmd("wtf wt-publish issue-199")),
			fmt.Sprintf("D. Open PR: %s", cmd("wtf wt-pr issue-199")),
			fmt.Sprintf("E. Update: %s", cmd("wtf wt-update issue-199")),
			fmt.Sprintf("F. Clean: %s", cmd("wtf wt-clean issue-199 --confirm")),
		}},
		{"3) Debug and safety", []string{
			fmt.Sprintf("• Debug mode: %s", cmd("wtf --debug <command>")),
			fmt.Sprintf("• Dry run: %s", cmd("wtf --dry-run <command>")),
			fmt.Sprintf("• Save history: %s", cmd("wtf --save-history <command>")),
		}},
	}))
}

// QuickstartAction shows the short daily-workflow guide
func QuickstartAction(splog *tui.Splog) {
	splog.Page(renderGuide("Quickstart Guide", []guideSection{
		{"First time:", []string{
			cmd("wtf fork-setup") + "         # Create fork and setup remotes",
		}},
		{"Daily workflow:", []string{
			cmd("wtf sync-main") + "          # Update fork's main",
			cmd("wtf wt-new feat-x") + "      # Create worktree",
			"# ... make changes ...",
			cmd("wtf wt-publish feat-x") + "  # Push to fork",
			cmd("wtf wt-pr feat-x") + "       # Create PR",
			cmd("wtf wt-update feat-x") + "   # Rebase on upstream",
			cmd("wtf wt-clean feat-x") + "    # Clean up after merge",
		}},
		{"Options:", []string{
			"--debug    Show git commands",
			"--dry-run  Preview without execution",
			"--help     Show help for any command",
		}},
	}))
}
