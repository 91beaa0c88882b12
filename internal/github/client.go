// Package github provides a client for interacting with the GitHub API.
package github

import (
	"context"
)

// Pull request states accepted by FindPullRequest
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateAll    = "all"
)

// PullRequestInfo contains information about a pull request
// This is a simplified struct to avoid coupling to go-github library
type PullRequestInfo struct {
	Number  int
	HTMLURL string
	Title   string
	Body    string
	State   string
	Draft   bool
	Merged  bool
	Base    string
	Head    string
}

// Repository is the subset of repository metadata the workflow needs
type Repository struct {
	Owner    string
	Name     string
	FullName string
	Fork     bool
	// Parent is the owner/repo this repository was forked from, if any
	Parent   string
	CloneURL string
	SSHURL   string
}

// CreatePROptions contains options for creating a pull request
type CreatePROptions struct {
	Title string
	Body  string
	// Head is the owner-qualified source branch, e.g. alice:feat/x
	Head  string
	Base  string
	Draft bool
}

// Client is an interface for GitHub API interactions
type Client interface {
	// AuthenticatedUser returns the login of the token's user
	AuthenticatedUser(ctx context.Context) (string, error)

	// GetRepository returns repository metadata, or nil when it does not exist
	GetRepository(ctx context.Context, owner, repo string) (*Repository, error)

	// CreateFork forks owner/repo into the authenticated user's account
	CreateFork(ctx context.Context, owner, repo string) (*Repository, error)

	// FindPullRequest returns the most recent pull request from head in the
	// given state, or nil when there is none
	FindPullRequest(ctx context.Context, owner, repo, head, state string) (*PullRequestInfo, error)

	// CreatePullRequest creates a new pull request
	CreatePullRequest(ctx context.Context, owner, repo string, opts CreatePROptions) (*PullRequestInfo, error)
}
