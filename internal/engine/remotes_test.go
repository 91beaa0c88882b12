package engine

import (
	"context"
	"testing"

	gogithub "github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/require"

	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/guard"
	"worktreeflow.dev/worktreeflow/testhelpers"
)

func remoteURL(t *testing.T, scene *testhelpers.Scene, name string) string {
	t.Helper()
	url, err := scene.Repo.RunGitCommandAndGetOutput("remote", "get-url", name)
	require.NoError(t, err)
	return url
}

func TestAddUpstream(t *testing.T) {
	t.Parallel()

	t.Run("follows the scheme of origin", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)
		require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "origin", "https://github.com/alice/widgets.git"))
		e := newTestEngine(t, scene)
		ctx := context.Background()

		result, err := e.AddUpstream(ctx, UpstreamOptions{Repo: "acme/widgets"})
		require.NoError(t, err)
		require.Equal(t, RemoteAdded, result.Action)
		require.Equal(t, "https://github.com/acme/widgets.git", result.URL)
		require.Equal(t, result.URL, remoteURL(t, scene, "upstream"))
		require.Len(t, result.Remotes, 2)

		ff, err := scene.Repo.RunGitCommandAndGetOutput("config", "pull.ff")
		require.NoError(t, err)
		require.Equal(t, "only", ff)

		result, err = e.AddUpstream(ctx, UpstreamOptions{Repo: "acme/widgets"})
		require.NoError(t, err)
		require.Equal(t, RemoteUnchanged, result.Action)
	})

	t.Run("a different existing upstream needs --update", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)
		require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "origin", "git@github.com:alice/widgets.git"))
		require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "upstream", "git@github.com:someone/widgets.git"))
		e := newTestEngine(t, scene)
		ctx := context.Background()

		_, err := e.AddUpstream(ctx, UpstreamOptions{Repo: "acme/widgets"})
		blocked := requireBlocked(t, err, guard.ConditionRemoteMismatch)
		require.Contains(t, blocked.Remedies, "wtf upstream-add --update")
		require.Equal(t, "git@github.com:someone/widgets.git", remoteURL(t, scene, "upstream"))

		result, err := e.AddUpstream(ctx, UpstreamOptions{Repo: "acme/widgets", Update: true})
		require.NoError(t, err)
		require.Equal(t, RemoteUpdated, result.Action)
		require.Equal(t, "git@github.com:acme/widgets.git", remoteURL(t, scene, "upstream"))
	})

	t.Run("malformed repository is rejected", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)
		e := newTestEngine(t, scene)

		_, err := e.AddUpstream(context.Background(), UpstreamOptions{Repo: "widgets"})
		require.ErrorIs(t, err, errors.ErrValidation)
	})
}

func TestSetupFork(t *testing.T) {
	t.Parallel()

	t.Run("forks upstream and rewires a clone of the original", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)
		require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "origin", "git@github.com:acme/widgets.git"))
		mock, withForge := newForge(t)
		e := newTestEngine(t, scene, withForge)

		result, err := e.SetupFork(context.Background())
		require.NoError(t, err)
		require.Equal(t, "alice", result.User)
		require.Equal(t, "alice/widgets", result.Fork)
		require.True(t, result.ForkCreated)
		require.Equal(t, []string{"acme/widgets"}, mock.CreatedForks)
		require.Equal(t, RemoteRenamed, result.Actions["upstream"])
		require.Equal(t, RemoteAdded, result.Actions["origin"])

		require.Equal(t, "git@github.com:alice/widgets.git", remoteURL(t, scene, "origin"))
		require.Equal(t, "git@github.com:acme/widgets.git", remoteURL(t, scene, "upstream"))
	})

	t.Run("existing fork and remotes are left alone", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)
		require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "origin", "git@github.com:alice/widgets.git"))
		require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "upstream", "git@github.com:acme/widgets.git"))
		mock, withForge := newForge(t)
		e := newTestEngine(t, scene, withForge)
		mock.Repos["alice/widgets"] = &gogithub.Repository{
			Name:     gogithub.String("widgets"),
			FullName: gogithub.String("alice/widgets"),
			Fork:     gogithub.Bool(true),
		}

		result, err := e.SetupFork(context.Background())
		require.NoError(t, err)
		require.False(t, result.ForkCreated)
		require.Empty(t, mock.CreatedForks)
		require.Equal(t, RemoteUnchanged, result.Actions["origin"])
		_, touched := result.Actions["upstream"]
		require.False(t, touched)
	})

	t.Run("forge access is required", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)
		e := newTestEngine(t, scene)

		_, err := e.SetupFork(context.Background())
		require.ErrorIs(t, err, errors.ErrEnvironmentMissing)
	})
}
