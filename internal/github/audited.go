package github

import (
	"context"
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/audit"
)

// AuditedClient records mutating forge calls in the audit log and answers
// them with synthetic results in dry-run mode. Reads pass through.
type AuditedClient struct {
	inner  Client
	log    *audit.Log
	dryRun bool
}

// NewAuditedClient wraps inner
func NewAuditedClient(inner Client, log *audit.Log, dryRun bool) *AuditedClient {
	return &AuditedClient{inner: inner, log: log, dryRun: dryRun}
}

// AuthenticatedUser returns the login of the token's user
func (c *AuditedClient) AuthenticatedUser(ctx context.Context) (string, error) {
	return c.inner.AuthenticatedUser(ctx)
}

// GetRepository returns repository metadata
func (c *AuditedClient) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	return c.inner.GetRepository(ctx, owner, repo)
}

// FindPullRequest returns the most recent pull request from head in state
func (c *AuditedClient) FindPullRequest(ctx context.Context, owner, repo, head, state string) (*PullRequestInfo, error) {
	return c.inner.FindPullRequest(ctx, owner, repo, head, state)
}

// CreateFork forks owner/repo
func (c *AuditedClient) CreateFork(ctx context.Context, owner, repo string) (*Repository, error) {
	command := audit.CommandText("gh", "repo", "fork", owner+"/"+repo, "--clone=false")
	idx := c.log.Record(command, fmt.Sprintf("Fork %s/%s", owner, repo))
	if c.dryRun {
		return &Repository{Name: repo, Fork: true, Parent: owner + "/" + repo}, nil
	}

	fork, err := c.inner.CreateFork(ctx, owner, repo)
	c.complete(idx, err)
	return fork, err
}

// CreatePullRequest creates a new pull request
func (c *AuditedClient) CreatePullRequest(ctx context.Context, owner, repo string, opts CreatePROptions) (*PullRequestInfo, error) {
	args := []string{"pr", "create", "--repo", owner + "/" + repo, "--head", opts.Head, "--base", opts.Base, "--title", opts.Title}
	if opts.Draft {
		args = append(args, "--draft")
	}
	idx := c.log.Record(audit.CommandText("gh", args...), fmt.Sprintf("Create pull request for %s", opts.Head))
	if c.dryRun {
		return &PullRequestInfo{
			Title: opts.Title,
			Body:  opts.Body,
			State: StateOpen,
			Draft: opts.Draft,
			Base:  opts.Base,
			Head:  opts.Head,
		}, nil
	}

	pr, err := c.inner.CreatePullRequest(ctx, owner, repo, opts)
	c.complete(idx, err)
	return pr, err
}

func (c *AuditedClient) complete(idx int, err error) {
	if err != nil {
		c.log.Complete(idx, fmt.Sprintf("failed: %v", err))
		return
	}
	c.log.Complete(idx, "success")
}
