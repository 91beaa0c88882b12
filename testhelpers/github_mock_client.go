package testhelpers

import (
	"testing"

	githubpkg "worktreeflow.dev/worktreeflow/internal/github"
)

// NewMockForge returns a githubpkg.Client backed by the mock server, going
// through the same go-github code paths as production.
func NewMockForge(t *testing.T, config *MockGitHubServerConfig) githubpkg.Client {
	client, _, _ := NewMockGitHubClient(t, config)
	return githubpkg.NewRealClient(client)
}
