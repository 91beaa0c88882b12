package actions

import (
	"worktreeflow.dev/worktreeflow/internal/engine"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// WorktreePROptions contains options for the wt-pr command
type WorktreePROptions struct {
	Slug  string
	Base  string
	Title string
	Body  string
	Draft bool
	// Edit opens the editor on the body before the pull request is created
	Edit bool
}

// WorktreePRAction opens a pull request from the fork's feature branch to upstream
func WorktreePRAction(ctx *runtime.Context, opts WorktreePROptions) error {
	splog := ctx.Splog

	prOpts := engine.PROptions{
		Slug:  opts.Slug,
		Base:  opts.Base,
		Title: opts.Title,
		Body:  opts.Body,
		Draft: opts.Draft,
	}
	if opts.Edit {
		prOpts.EditBody = func(body string) (string, error) {
			return tui.OpenEditor(body, "wtf-pr-body-*.md")
		}
	}

	result, err := ctx.Engine.CreatePullRequest(ctx.Context, prOpts)
	if err != nil {
		return err
	}

	pr := result.PR
	if result.Existing {
		splog.Info("Pull request #%d already exists for %s (%s)",
			pr.Number, tui.ColorBranchName(result.Branch, false), tui.ColorPRState(pr.State, pr.Draft))
		splog.Info("  %s", pr.HTMLURL)
		return nil
	}

	if result.Pushed {
		splog.Info("Pushed %s to %s", result.Branch, ctx.Settings.OriginRemote)
	}
	kind := "pull request"
	if result.Draft {
		kind = "draft pull request"
	}
	if ctx.Session.DryRun {
		splog.Info("Would create %s %s -> %s: %s", kind, result.Head, pr.Base, result.Title)
		dryRunNote(splog, true)
		return nil
	}
	splog.Success("Created %s #%d: %s", kind, pr.Number, result.Title)
	if pr.HTMLURL != "" {
		splog.Info("  %s", pr.HTMLURL)
	}
	return nil
}
