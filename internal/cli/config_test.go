package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"worktreeflow.dev/worktreeflow/testhelpers"
)

func TestConfigCommand(t *testing.T) {
	t.Run("config get returns the default base branch", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)

		output, err := scene.Repo.RunCliCommandAndGetOutput("config", "get", "base-branch")
		require.NoError(t, err, "config get failed: %s", output)
		require.Equal(t, "main", strings.TrimSpace(output))
	})

	t.Run("config set and get upstream-repo", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)

		output, err := scene.Repo.RunCliCommandAndGetOutput("config", "set", "upstream-repo", "acme/widgets")
		require.NoError(t, err, "config set failed: %s", output)
		require.Contains(t, output, "Set upstream-repo to: acme/widgets")

		output, err = scene.Repo.RunCliCommandAndGetOutput("config", "get", "upstream-repo")
		require.NoError(t, err, "config get failed: %s", output)
		require.Equal(t, "acme/widgets", strings.TrimSpace(output))
	})

	t.Run("config set rejects an unknown key", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)

		output, err := scene.Repo.RunCliCommandAndGetOutput("config", "set", "no-such-key", "x")
		require.Error(t, err)
		require.Contains(t, output, "unknown configuration key: no-such-key")
	})

	t.Run("config list shows every key", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)

		output, err := scene.Repo.RunCliCommandAndGetOutput("config", "list")
		require.NoError(t, err, "config list failed: %s", output)
		for _, key := range []string{"upstream-repo", "base-branch", "feature-prefix", "draft-pr"} {
			require.Contains(t, output, key)
		}
	})
}
