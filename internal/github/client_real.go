package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// RealClient implements Client using go-github
type RealClient struct {
	client *github.Client
}

// NewRealClient wraps an already configured go-github client
func NewRealClient(client *github.Client) *RealClient {
	return &RealClient{client: client}
}

// NewClientForHost creates a client authenticated with token.
// Supports both github.com and GitHub Enterprise instances.
func NewClientForHost(ctx context.Context, hostname, token string) (*RealClient, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if hostname != "" && hostname != "github.com" {
		// GitHub Enterprise API endpoints
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", hostname, err)
		}
		client.BaseURL = baseURL
		client.UploadURL = uploadURL
	}

	return NewRealClient(client), nil
}

// AuthenticatedUser returns the login of the token's user
func (c *RealClient) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// GetRepository returns repository metadata, or nil when it does not exist
func (c *RealClient) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	r, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, repo, err)
	}
	return toRepository(r), nil
}

// CreateFork forks owner/repo. GitHub creates forks asynchronously and
// answers 202 Accepted; the returned metadata is still usable.
func (c *RealClient) CreateFork(ctx context.Context, owner, repo string) (*Repository, error) {
	r, _, err := c.client.Repositories.CreateFork(ctx, owner, repo, &github.RepositoryCreateForkOptions{})
	if err != nil {
		var accepted *github.AcceptedError
		if !errors.As(err, &accepted) {
			return nil, fmt.Errorf("failed to fork %s/%s: %w", owner, repo, err)
		}
	}
	if r == nil {
		return nil, fmt.Errorf("fork of %s/%s returned no repository", owner, repo)
	}
	return toRepository(r), nil
}

// FindPullRequest returns the most recent pull request from head in state
func (c *RealClient) FindPullRequest(ctx context.Context, owner, repo, head, state string) (*PullRequestInfo, error) {
	prs, _, err := c.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		Head:  head,
		State: state,
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	if len(prs) == 0 {
		return nil, nil
	}
	return toPullRequestInfo(prs[0]), nil
}

// CreatePullRequest creates a new pull request
func (c *RealClient) CreatePullRequest(ctx context.Context, owner, repo string, opts CreatePROptions) (*PullRequestInfo, error) {
	pr := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
		Draft: github.Bool(opts.Draft),
	}

	if opts.Body != "" {
		pr.Body = github.String(opts.Body)
	}

	createdPR, _, err := c.client.PullRequests.Create(ctx, owner, repo, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}
	return toPullRequestInfo(createdPR), nil
}

func toPullRequestInfo(pr *github.PullRequest) *PullRequestInfo {
	head := pr.GetHead().GetLabel()
	if head == "" {
		head = pr.GetHead().GetRef()
	}
	return &PullRequestInfo{
		Number:  pr.GetNumber(),
		HTMLURL: pr.GetHTMLURL(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		State:   pr.GetState(),
		Draft:   pr.GetDraft(),
		Merged:  pr.GetMerged(),
		Base:    pr.GetBase().GetRef(),
		Head:    head,
	}
}

func toRepository(r *github.Repository) *Repository {
	return &Repository{
		Owner:    r.GetOwner().GetLogin(),
		Name:     r.GetName(),
		FullName: r.GetFullName(),
		Fork:     r.GetFork(),
		Parent:   r.GetParent().GetFullName(),
		CloneURL: r.GetCloneURL(),
		SSHURL:   r.GetSSHURL(),
	}
}
