package actions

import (
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// CheckRepoAction reports the repository the command is running in.
// Outside a repository the runtime context cannot be built, so reaching
// this point already means the check passed.
func CheckRepoAction(ctx *runtime.Context) error {
	splog := ctx.Splog
	splog.Info("%s", tui.ColorGreen("✓ Inside Git repository"))
	splog.Info("  Root: %s", ctx.RepoRoot)
	splog.Info("  Name: %s", ctx.Repo.Name())
	return nil
}

// CheckOriginAction verifies the fork remote exists
func CheckOriginAction(ctx *runtime.Context) error {
	splog := ctx.Splog
	name := ctx.Settings.OriginRemote

	url, ok, err := ctx.Repo.RemoteURL(name)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewEnvironmentMissingError(
			fmt.Sprintf("'%s' remote (your fork)", name),
			fmt.Sprintf("git remote add %s <url>, or run: wtf fork-setup", name))
	}

	splog.Info("%s", tui.ColorGreen("✓ Origin remote exists"))
	splog.Info("  URL: %s", url)
	if topo, err := ctx.Engine.Topology(ctx.Context); err == nil && topo.HasForkOwner() {
		splog.Info("  Owner: %s", topo.ForkOwner)
	}
	return nil
}

// CheckUpstreamAction verifies the upstream remote exists
func CheckUpstreamAction(ctx *runtime.Context) error {
	splog := ctx.Splog
	name := ctx.Settings.UpstreamRemote

	url, ok, err := ctx.Repo.RemoteURL(name)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewEnvironmentMissingError(
			fmt.Sprintf("'%s' remote (%s)", name, ctx.Settings.UpstreamRepo),
			"wtf upstream-add")
	}

	splog.Info("%s", tui.ColorGreen("✓ Upstream remote exists"))
	splog.Info("  URL: %s", url)
	if topo, err := ctx.Engine.Topology(ctx.Context); err == nil {
		splog.Info("  Repo: %s", topo.UpstreamRepo)
	}
	return nil
}
