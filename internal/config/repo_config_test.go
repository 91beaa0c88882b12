package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newRepoRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0750))
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults when no config exists", func(t *testing.T) {
		root := newRepoRoot(t)

		settings, err := Load(root)
		require.NoError(t, err)
		require.Equal(t, Defaults(), settings)
		require.Equal(t, "feat/", settings.FeaturePrefix)
		require.Equal(t, "../wt", settings.WorktreeBase)
		require.True(t, settings.CreateBackups)
	})

	t.Run("project file overrides defaults", func(t *testing.T) {
		root := newRepoRoot(t)
		project := "upstreamRepo: acme/widgets\nbaseBranch: develop\ndraftPR: true\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(project), 0600))

		settings, err := Load(root)
		require.NoError(t, err)
		require.Equal(t, "acme/widgets", settings.UpstreamRepo)
		require.Equal(t, "develop", settings.BaseBranch)
		require.True(t, settings.DraftPR)
		require.Equal(t, "origin", settings.OriginRemote)
	})

	t.Run("local file with comments overrides project file", func(t *testing.T) {
		root := newRepoRoot(t)
		project := "upstreamRepo: acme/widgets\nbaseBranch: develop\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(project), 0600))
		local := `{
  // my fork tracks trunk
  "baseBranch": "trunk",
  "createBackups": false,
}`
		require.NoError(t, os.WriteFile(filepath.Join(root, ".git", LocalConfigFile), []byte(local), 0600))

		settings, err := Load(root)
		require.NoError(t, err)
		require.Equal(t, "acme/widgets", settings.UpstreamRepo)
		require.Equal(t, "trunk", settings.BaseBranch)
		require.False(t, settings.CreateBackups)
	})

	t.Run("environment overrides files", func(t *testing.T) {
		root := newRepoRoot(t)
		t.Setenv("WTF_UPSTREAM_REPO", "env/repo")
		t.Setenv("WTF_BASE_BRANCH", "master")

		settings, err := Load(root)
		require.NoError(t, err)
		require.Equal(t, "env/repo", settings.UpstreamRepo)
		require.Equal(t, "master", settings.BaseBranch)
	})

	t.Run("invalid local file is an error", func(t *testing.T) {
		root := newRepoRoot(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, ".git", LocalConfigFile), []byte("{not json"), 0600))

		_, err := Load(root)
		require.Error(t, err)
	})
}

func TestSetValue(t *testing.T) {
	t.Parallel()

	t.Run("round trips string and bool keys", func(t *testing.T) {
		t.Parallel()
		root := newRepoRoot(t)

		require.NoError(t, SetValue(root, "base-branch", "develop"))
		require.NoError(t, SetValue(root, "auto-stash", "true"))

		value, err := GetValue(root, "base-branch")
		require.NoError(t, err)
		require.Equal(t, "develop", value)

		value, err = GetValue(root, "auto-stash")
		require.NoError(t, err)
		require.Equal(t, "true", value)

		info, err := os.Stat(filepath.Join(root, ".git", LocalConfigFile))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("rejects unknown keys and bad values", func(t *testing.T) {
		t.Parallel()
		root := newRepoRoot(t)

		require.Error(t, SetValue(root, "nope", "x"))
		require.Error(t, SetValue(root, "auto-stash", "maybe"))
		require.Error(t, SetValue(root, "upstream-repo", "no-slash"))
		require.NoError(t, SetValue(root, "upstream-repo", "acme/widgets"))
	})
}

func TestOwnerRepoHelpers(t *testing.T) {
	t.Parallel()

	require.True(t, IsOwnerRepo("acme/widgets"))
	require.False(t, IsOwnerRepo("acme"))
	require.False(t, IsOwnerRepo("acme/widgets/extra"))
	require.False(t, IsOwnerRepo("/widgets"))
	require.Equal(t, "acme", Owner("acme/widgets"))
	require.Equal(t, "widgets", RepoName("acme/widgets"))
}
