package doctor

import (
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// checkRepository reports the repository layout: root, remotes, fork owner,
// current branch and whether the main working tree is dirty
func checkRepository(ctx *runtime.Context, r *report) {
	settings := ctx.Settings

	r.add("Repo root:", ctx.RepoRoot)
	r.add("Repo name:", ctx.Repo.Name())

	topo, err := ctx.Engine.Topology(ctx.Context)
	if err != nil {
		r.errors = append(r.errors, fmt.Sprintf("failed to read remotes: %v", err))
		return
	}
	r.add("Upstream repo:", topo.UpstreamRepo)
	if topo.HasForkOwner() {
		r.add("Fork owner:", topo.ForkOwner)
	} else {
		r.add("Fork owner:", tui.ColorRed("Not detected"))
		r.warnings = append(r.warnings, "Could not detect fork owner")
	}

	originURL, hasOrigin, err := ctx.Repo.RemoteURL(settings.OriginRemote)
	if err != nil {
		r.errors = append(r.errors, fmt.Sprintf("failed to read remote %s: %v", settings.OriginRemote, err))
		return
	}
	if hasOrigin {
		r.add("Origin URL:", originURL)
	} else {
		r.add("Origin URL:", tui.ColorRed("Missing"))
		r.warnings = append(r.warnings,
			fmt.Sprintf("Missing '%s' remote (your fork). Run: wtf fork-setup", settings.OriginRemote))
	}

	upstreamURL, hasUpstream, err := ctx.Repo.RemoteURL(settings.UpstreamRemote)
	if err != nil {
		r.errors = append(r.errors, fmt.Sprintf("failed to read remote %s: %v", settings.UpstreamRemote, err))
		return
	}
	if hasUpstream {
		r.add("Upstream URL:", upstreamURL)
	} else {
		r.add("Upstream URL:", tui.ColorRed("Missing"))
		r.warnings = append(r.warnings,
			fmt.Sprintf("Missing '%s' remote. Run: wtf upstream-add", settings.UpstreamRemote))
	}

	branch, err := ctx.Repo.CurrentBranch(ctx.Context, ctx.Cwd)
	switch {
	case err != nil:
		r.add("Current branch:", tui.ColorRed("unknown"))
	case branch == "":
		r.add("Current branch:", "(detached)")
	default:
		r.add("Current branch:", branch)
	}

	dirty, err := ctx.Engine.Inspector().IsDirty(ctx.Context, ctx.Cwd, false)
	switch {
	case err != nil:
		r.add("Has changes:", tui.ColorRed("unknown"))
	case dirty:
		r.add("Has changes:", tui.ColorYellow("Yes"))
	default:
		r.add("Has changes:", "No")
	}
}
