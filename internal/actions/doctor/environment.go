package doctor

import (
	"os/exec"
	"strings"

	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// checkEnvironment reports git, the GitHub CLI and API token availability
func checkEnvironment(ctx *runtime.Context, r *report) {
	gitVersion, err := exec.CommandContext(ctx.Context, "git", "version").Output()
	if err != nil {
		r.add("Git:", tui.ColorRed("✗"))
		r.errors = append(r.errors, "git is not installed or not in PATH")
	} else {
		r.add("Git:", strings.TrimPrefix(strings.TrimSpace(string(gitVersion)), "git version "))
	}

	capability := ctx.Capability
	if capability.GHInstalled {
		r.add("Has gh CLI:", tui.ColorGreen("✓"))
	} else {
		r.add("Has gh CLI:", tui.ColorRed("✗"))
		r.warnings = append(r.warnings, "GitHub CLI not found. Install from: https://cli.github.com/")
	}

	if capability.Available() {
		r.add("GitHub token:", tui.ColorGreen("✓")+" "+tui.ColorDim("("+capability.TokenSource+")"))
	} else {
		r.add("GitHub token:", tui.ColorRed("✗"))
		r.warnings = append(r.warnings,
			"GitHub authentication not configured (GITHUB_TOKEN, GH_TOKEN or gh auth login)")
	}
}
