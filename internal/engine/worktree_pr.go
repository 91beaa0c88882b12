package engine

import (
	"context"
	"fmt"
	"strings"

	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/github"
)

// commitListPlaceholder is replaced in the PR body template
const commitListPlaceholder = "{commit_list}"

// PROptions configures CreatePullRequest
type PROptions struct {
	Slug string
	// Base is the upstream branch the pull request targets
	Base  string
	Title string
	Body  string
	Draft bool
	// EditBody, when set, is handed the final body before the pull request
	// is created. An empty return keeps the original.
	EditBody func(body string) (string, error)
}

// PRResult reports the pull request for a feature
type PRResult struct {
	Branch string
	Head   string
	// Existing is set when a pull request was already open, closed or
	// merged for the branch and nothing was created
	Existing bool
	PR       *github.PullRequestInfo
	Pushed   bool
	Title    string
	Body     string
	Draft    bool
}

// CreatePullRequest opens a pull request from the fork's feature branch
// against upstream, pushing the branch first when origin lacks commits.
func (e *engineImpl) CreatePullRequest(ctx context.Context, opts PROptions) (*PRResult, error) {
	f, err := e.feature(opts.Slug)
	if err != nil {
		return nil, err
	}
	base := e.base(opts.Base)

	topo, err := e.Topology(ctx)
	if err != nil {
		return nil, err
	}
	if !topo.HasForkOwner() {
		return nil, errors.NewEnvironmentMissingError("fork owner",
			"point the origin remote at your fork, or run 'wtf fork-setup'")
	}
	if err := e.capability.Require(); err != nil {
		return nil, err
	}

	result := &PRResult{Branch: f.branch, Head: topo.HeadRef(f.branch)}

	existing, err := e.inspector.FindReviewRequest(ctx, topo.UpstreamRepo, result.Head)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing pull requests: %w", err)
	}
	if existing != nil {
		result.Existing = true
		result.PR = existing
		return result, nil
	}

	if err := e.repo.Fetch(ctx, e.settings.OriginRemote); err != nil {
		return nil, err
	}
	result.Pushed, err = e.pushIfNeeded(ctx, f.branch)
	if err != nil {
		return nil, err
	}

	result.Title = opts.Title
	if result.Title == "" {
		result.Title = e.defaultTitle(ctx, f)
	}
	result.Body = opts.Body
	if result.Body == "" {
		result.Body = e.defaultBody(ctx, f.branch, base, result.Title)
	}
	if opts.EditBody != nil {
		edited, err := opts.EditBody(result.Body)
		if err != nil {
			return nil, err
		}
		if edited = strings.TrimSpace(edited); edited != "" {
			result.Body = edited
		}
	}
	result.Draft = opts.Draft || e.settings.DraftPR

	e.log.Info("Creating pull request %s -> %s:%s...", result.Head, topo.UpstreamRepo, base)
	result.PR, err = e.forge.CreatePullRequest(ctx, topo.UpstreamOwner(), topo.UpstreamName(), github.CreatePROptions{
		Title: result.Title,
		Body:  result.Body,
		Head:  result.Head,
		Base:  base,
		Draft: result.Draft,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}
	return result, nil
}

// pushIfNeeded pushes branch when origin does not have it or lacks some of
// its commits. It reports whether a push happened.
func (e *engineImpl) pushIfNeeded(ctx context.Context, branch string) (bool, error) {
	origin := e.settings.OriginRemote
	onOrigin, err := e.repo.RemoteTrackingExists(origin, branch)
	if err != nil {
		return false, err
	}

	opts := git.PushOptions{Refspec: branch}
	if !onOrigin {
		e.log.Info("Branch is not on %s yet, pushing...", origin)
		opts.SetUpstream = true
	} else {
		unpushed, err := e.repo.CountCommits(ctx, e.originRef(branch), branch)
		if err != nil {
			return false, err
		}
		if unpushed == 0 {
			return false, nil
		}
		e.log.Info("Pushing %d unpushed commit(s)...", unpushed)
	}

	if err := e.repo.Push(ctx, origin, opts); err != nil {
		return false, err
	}
	return true, nil
}

func (e *engineImpl) defaultTitle(ctx context.Context, f feature) string {
	if commits, err := e.repo.Log(ctx, f.branch, 1); err == nil && len(commits) > 0 && commits[0].Subject != "" {
		return commits[0].Subject
	}
	return fmt.Sprintf("feat: %s", f.slug)
}

// defaultBody fills the configured template with one line per commit the
// branch has on top of upstream
func (e *engineImpl) defaultBody(ctx context.Context, branch, base, title string) string {
	var lines []string
	if commits, err := e.repo.CommitsBetween(ctx, e.upstreamRef(base), branch); err == nil {
		for _, c := range commits {
			lines = append(lines, "- "+c.Subject)
		}
	}
	if len(lines) == 0 {
		lines = []string{"- " + title}
	}

	template := e.settings.PRBodyTemplate
	if !strings.Contains(template, commitListPlaceholder) {
		return template
	}
	return strings.ReplaceAll(template, commitListPlaceholder, strings.Join(lines, "\n"))
}
