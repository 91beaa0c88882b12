package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	mu sync.Mutex

	// Login is returned by GET /user
	Login string
	// Repos maps owner/repo to repository metadata for GET /repos/{owner}/{repo}
	Repos map[string]*github.Repository
	// PRs holds the pull requests of Owner/Repo, matched by head label and state
	PRs []*github.PullRequest
	// CreatedPRs stores PRs that were created (for testing)
	CreatedPRs []*github.PullRequest
	// CreatedForks stores owner/repo of every fork request
	CreatedForks []string
	// ErrorResponses maps "METHOD /path" to a status code to answer with
	ErrorResponses map[string]int
	// Owner and Repo for the mock server
	Owner string
	Repo  string
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		Login:          "alice",
		Repos:          make(map[string]*github.Repository),
		PRs:            make([]*github.PullRequest, 0),
		CreatedPRs:     make([]*github.PullRequest, 0),
		ErrorResponses: make(map[string]int),
		Owner:          "owner",
		Repo:           "repo",
	}
}

// AddPR registers an existing pull request from head (owner:branch) in state
func (c *MockGitHubServerConfig) AddPR(number int, head, state string) *github.PullRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ref, _ := strings.Cut(head, ":")
	pr := &github.PullRequest{
		Number:  github.Int(number),
		State:   github.String(state),
		Title:   github.String("PR " + head),
		Head:    &github.PullRequestBranch{Label: github.String(head), Ref: github.String(ref)},
		Base:    &github.PullRequestBranch{Ref: github.String("main")},
		HTMLURL: github.String(fmt.Sprintf("https://github.com/%s/%s/pull/%d", c.Owner, c.Repo, number)),
	}
	c.PRs = append(c.PRs, pr)
	return pr
}

// Created returns a snapshot of the pull requests created through the API
func (c *MockGitHubServerConfig) Created() []*github.PullRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*github.PullRequest, len(c.CreatedPRs))
	copy(out, c.CreatedPRs)
	return out
}

// NewMockGitHubServer creates an httptest server that mocks GitHub API endpoints
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	pullsPath := "/repos/" + config.Owner + "/" + config.Repo + "/pulls"

	handler := func(w http.ResponseWriter, r *http.Request) {
		config.mu.Lock()
		defer config.mu.Unlock()

		path := r.URL.Path
		if status, ok := config.ErrorResponses[r.Method+" "+path]; ok {
			http.Error(w, http.StatusText(status), status)
			return
		}

		switch {
		case path == "/user" && r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, &github.User{Login: github.String(config.Login)})

		case path == pullsPath && r.Method == http.MethodGet:
			head := r.URL.Query().Get("head")
			state := r.URL.Query().Get("state")
			if state == "" {
				state = "open"
			}
			matches := []*github.PullRequest{}
			// Newest first, like the API's default sort
			for i := len(config.PRs) - 1; i >= 0; i-- {
				pr := config.PRs[i]
				if head != "" && pr.GetHead().GetLabel() != head {
					continue
				}
				if state != "all" && pr.GetState() != state {
					continue
				}
				matches = append(matches, pr)
			}
			writeJSON(w, http.StatusOK, matches)

		case path == pullsPath && r.Method == http.MethodPost:
			var newPR github.NewPullRequest
			if err := json.NewDecoder(r.Body).Decode(&newPR); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			prNumber := len(config.PRs) + 1
			_, ref, _ := strings.Cut(newPR.GetHead(), ":")
			pr := &github.PullRequest{
				Number:  github.Int(prNumber),
				State:   github.String("open"),
				Title:   newPR.Title,
				Body:    newPR.Body,
				Head:    &github.PullRequestBranch{Label: newPR.Head, Ref: github.String(ref)},
				Base:    &github.PullRequestBranch{Ref: newPR.Base},
				Draft:   newPR.Draft,
				HTMLURL: github.String(fmt.Sprintf("https://github.com/%s/%s/pull/%d", config.Owner, config.Repo, prNumber)),
			}
			config.PRs = append(config.PRs, pr)
			config.CreatedPRs = append(config.CreatedPRs, pr)
			writeJSON(w, http.StatusCreated, pr)

		case strings.HasSuffix(path, "/forks") && r.Method == http.MethodPost:
			fullName := strings.TrimSuffix(strings.TrimPrefix(path, "/repos/"), "/forks")
			config.CreatedForks = append(config.CreatedForks, fullName)
			_, name, _ := strings.Cut(fullName, "/")
			fork := &github.Repository{
				Name:     github.String(name),
				FullName: github.String(config.Login + "/" + name),
				Owner:    &github.User{Login: github.String(config.Login)},
				Fork:     github.Bool(true),
				Parent:   &github.Repository{FullName: github.String(fullName)},
				CloneURL: github.String("https://github.com/" + config.Login + "/" + name + ".git"),
				SSHURL:   github.String("git@github.com:" + config.Login + "/" + name + ".git"),
			}
			config.Repos[config.Login+"/"+name] = fork
			writeJSON(w, http.StatusAccepted, fork)

		case strings.HasPrefix(path, "/repos/") && r.Method == http.MethodGet:
			repo, ok := config.Repos[strings.TrimPrefix(path, "/repos/")]
			if !ok {
				http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, repo)

		default:
			http.Error(w, fmt.Sprintf("Unhandled path: %s (method: %s)", path, r.Method), http.StatusNotFound)
		}
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(func() { server.Close() })
	return server
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// NewMockGitHubClient creates a GitHub client configured to use a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL

	return client, config.Owner, config.Repo
}
