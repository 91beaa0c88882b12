package actions

import (
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/engine"
	"worktreeflow.dev/worktreeflow/internal/inspect"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// WorktreeStatusOptions contains options for the wt-status command
type WorktreeStatusOptions struct {
	Slug string
	Base string
}

// WorktreeStatusAction shows where a feature stands against upstream, the
// fork and its pull request
func WorktreeStatusAction(ctx *runtime.Context, opts WorktreeStatusOptions) error {
	splog := ctx.Splog

	report, err := ctx.Engine.WorktreeStatus(ctx.Context, engine.StatusOptions{
		Slug: opts.Slug,
		Base: opts.Base,
	})
	if err != nil {
		return err
	}

	splog.Info("%s", tui.ColorCyan(fmt.Sprintf("=== Status: %s ===", report.Slug)))
	splog.Newline()
	splog.Page(tui.RenderKeyValues(statusRows(report, ctx.Settings.UpstreamRemote)))

	if len(report.Recent) > 0 {
		splog.Newline()
		splog.Info("%s", tui.Bold("Recent commits:"))
		printCommits(splog, report.Recent)
	}

	if len(report.Suggestions) > 0 {
		splog.Newline()
		splog.Info("%s", tui.Bold("Suggested actions:"))
		for _, s := range report.Suggestions {
			splog.Info("  • %s", s)
		}
	}
	return nil
}

func statusRows(r *engine.StatusReport, upstreamRemote string) [][2]string {
	rows := [][2]string{
		{"Branch:", r.Branch},
		{"Path:", r.Path},
	}
	if r.Head != nil {
		rows = append(rows, [2]string{"Head:", fmt.Sprintf("%s %s", r.Head.ShortSHA(), r.Head.Subject)})
	}

	upstream := fmt.Sprintf("%d behind, %d ahead of %s/%s", r.BehindUpstream, r.AheadUpstream, upstreamRemote, r.Base)
	if r.BehindUpstream > 0 {
		upstream = tui.ColorYellow(upstream)
	}
	rows = append(rows, [2]string{"Upstream:", upstream})

	switch {
	case !r.Published:
		rows = append(rows, [2]string{"Fork:", tui.ColorYellow("not published")})
	case r.Unpushed > 0:
		rows = append(rows, [2]string{"Fork:", tui.ColorYellow(fmt.Sprintf("%d unpushed commit(s)", r.Unpushed))})
	default:
		rows = append(rows, [2]string{"Fork:", tui.ColorGreen("in sync")})
	}

	changes := fmt.Sprintf("%d modified, %d untracked", r.Modified, r.Untracked)
	if r.Modified+r.Untracked > 0 {
		changes = tui.ColorYellow(changes)
	}
	rows = append(rows, [2]string{"Changes:", changes})

	switch {
	case r.PRLookup == inspect.Unknown:
		rows = append(rows, [2]string{"Pull request:", tui.ColorDim("unknown")})
	case r.PR == nil:
		rows = append(rows, [2]string{"Pull request:", "none"})
	default:
		rows = append(rows, [2]string{"Pull request:", fmt.Sprintf("#%d %s %s",
			r.PR.Number, tui.ColorPRState(r.PR.State, r.PR.Draft), r.PR.HTMLURL)})
	}
	return rows
}
