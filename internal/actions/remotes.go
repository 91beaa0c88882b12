package actions

import (
	"fmt"
	"sort"

	"worktreeflow.dev/worktreeflow/internal/engine"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// UpstreamAddOptions contains options for the upstream-add command
type UpstreamAddOptions struct {
	// Repo overrides the configured upstream, as owner/repo
	Repo   string
	Update bool
}

// UpstreamAddAction adds or updates the upstream remote
func UpstreamAddAction(ctx *runtime.Context, opts UpstreamAddOptions) error {
	splog := ctx.Splog

	result, err := ctx.Engine.AddUpstream(ctx.Context, engine.UpstreamOptions{
		Repo:   opts.Repo,
		Update: opts.Update,
	})
	if err != nil {
		return err
	}

	remote := ctx.Settings.UpstreamRemote
	switch result.Action {
	case engine.RemoteAdded:
		splog.Success("Added %s remote: %s", remote, result.URL)
	case engine.RemoteUpdated:
		splog.Success("Updated %s remote: %s", remote, result.URL)
	default:
		splog.Info("%s remote already points at %s", remote, result.URL)
	}

	splog.Newline()
	printRemotes(splog, result.Remotes)
	dryRunNote(splog, ctx.Session.DryRun)
	return nil
}

// ForkSetupAction creates the user's fork if needed and points origin at it
func ForkSetupAction(ctx *runtime.Context) error {
	splog := ctx.Splog

	result, err := ctx.Engine.SetupFork(ctx.Context)
	if err != nil {
		return err
	}

	splog.Info("GitHub user: %s", tui.Bold(result.User))
	if result.ForkCreated {
		splog.Success("Created fork %s", result.Fork)
	} else {
		splog.Info("Fork %s already exists", result.Fork)
	}

	names := make([]string, 0, len(result.Actions))
	for name := range result.Actions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		splog.Info("  %s", describeRemoteAction(name, result.Actions[name]))
	}

	splog.Newline()
	printRemotes(splog, result.Remotes)
	dryRunNote(splog, ctx.Session.DryRun)
	return nil
}

func describeRemoteAction(name string, action engine.RemoteAction) string {
	switch action {
	case engine.RemoteAdded:
		return fmt.Sprintf("Added remote %s", tui.ColorCyan(name))
	case engine.RemoteUpdated:
		return fmt.Sprintf("Updated remote %s", tui.ColorCyan(name))
	case engine.RemoteRenamed:
		return fmt.Sprintf("Renamed the upstream clone remote to %s", tui.ColorCyan(name))
	case engine.RemoteRemoved:
		return fmt.Sprintf("Removed remote %s", tui.ColorCyan(name))
	default:
		return fmt.Sprintf("Remote %s is already correct", tui.ColorCyan(name))
	}
}
