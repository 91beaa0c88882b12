package github

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
)

// Capability describes what forge access this session has
type Capability struct {
	// GHInstalled reports whether the gh CLI is on PATH
	GHInstalled bool
	// Token is the API token, empty when none could be found
	Token string
	// TokenSource names where the token came from
	TokenSource string
}

// Available reports whether forge API calls can be made
func (c Capability) Available() bool {
	return c.Token != ""
}

// Require returns an EnvironmentMissingError when the forge is unavailable
func (c Capability) Require() error {
	if c.Available() {
		return nil
	}
	if !c.GHInstalled {
		return errors.NewEnvironmentMissingError("GitHub access",
			"install the GitHub CLI (https://cli.github.com) and run 'gh auth login', or set GITHUB_TOKEN")
	}
	return errors.NewEnvironmentMissingError("GitHub access", "gh auth login")
}

// DetectCapability looks for the gh CLI and an API token. It is meant to
// run once per session.
func DetectCapability(ctx context.Context) Capability {
	capability := Capability{}
	if _, err := exec.LookPath("gh"); err == nil {
		capability.GHInstalled = true
	}

	for _, name := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(name); token != "" {
			capability.Token = token
			capability.TokenSource = name
			return capability
		}
	}

	if capability.GHInstalled {
		if token, err := ghAuthToken(ctx); err == nil {
			capability.Token = token
			capability.TokenSource = "gh auth token"
		}
	}
	return capability
}

// ghAuthToken asks the gh CLI for its stored token
func ghAuthToken(ctx context.Context) (string, error) {
	output, err := git.RunGHCommandWithContext(ctx, "auth", "token")
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub token: %w", err)
	}

	token := strings.TrimSpace(output)
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}

	return token, nil
}
