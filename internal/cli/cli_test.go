package cli_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"worktreeflow.dev/worktreeflow/testhelpers"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, nil)

	output, err := scene.Repo.RunCliCommandAndGetOutput("version")
	require.NoError(t, err, "version failed: %s", output)
	require.Contains(t, output, "wtf dev")
}

func TestCheckCommands(t *testing.T) {
	t.Run("check-repo succeeds inside a repository", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)

		output, err := scene.Repo.RunCliCommandAndGetOutput("check-repo")
		require.NoError(t, err, "check-repo failed: %s", output)
		require.Contains(t, output, "Inside Git repository")
		require.Contains(t, output, testhelpers.RepoName)
	})

	t.Run("check-upstream fails with a remedy when the remote is missing", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)

		output, err := scene.Repo.RunCliCommandAndGetOutput("check-upstream")
		require.Error(t, err)
		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		require.Equal(t, 1, exitErr.ExitCode())
		require.Contains(t, output, "wtf upstream-add")
	})

	t.Run("check-origin reports the origin remote", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)

		output, err := scene.Repo.RunCliCommandAndGetOutput("check-origin")
		require.NoError(t, err, "check-origin failed: %s", output)
		require.Contains(t, output, "Origin remote exists")
	})
}

func TestWorktreeCommands(t *testing.T) {
	t.Run("wt-new creates the worktree and is idempotent", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)

		output, err := scene.Repo.RunCliCommandAndGetOutput("wt-new", "sprockets")
		require.NoError(t, err, "wt-new failed: %s", output)
		require.Contains(t, output, "Created worktree for feat/sprockets")
		require.DirExists(t, scene.WorktreePath("sprockets"))

		output, err = scene.Repo.RunCliCommandAndGetOutput("wt-new", "sprockets")
		require.NoError(t, err, "second wt-new failed: %s", output)
		require.Contains(t, output, "already exists")
	})

	t.Run("wt-new rejects an invalid slug", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)

		output, err := scene.Repo.RunCliCommandAndGetOutput("wt-new", "../escape")
		require.Error(t, err, output)
		require.NoDirExists(t, filepath.Join(scene.Dir, "code", "escape"))
	})

	t.Run("dry-run leaves the repository untouched", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)

		output, err := scene.Repo.RunCliCommandAndGetOutput("--dry-run", "wt-new", "sprockets")
		require.NoError(t, err, "dry-run wt-new failed: %s", output)
		require.Contains(t, output, "[dry-run] No changes will be made")
		require.NoDirExists(t, scene.WorktreePath("sprockets"))

		branches, err := scene.Repo.GetLocalBranches()
		require.NoError(t, err)
		require.NotContains(t, branches, "feat/sprockets")
	})

	t.Run("wt-list shows created worktrees", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)

		_, err := scene.Repo.RunCliCommandAndGetOutput("wt-new", "sprockets")
		require.NoError(t, err)

		output, err := scene.Repo.RunCliCommandAndGetOutput("wt-list")
		require.NoError(t, err, "wt-list failed: %s", output)
		require.Contains(t, output, "Git Worktrees")
		require.Contains(t, output, "feat/sprockets")
	})

	t.Run("wt-clean requires confirmation", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)

		_, err := scene.Repo.RunCliCommandAndGetOutput("wt-new", "sprockets")
		require.NoError(t, err)

		output, err := scene.Repo.RunCliCommandAndGetOutput("wt-clean", "sprockets")
		require.Error(t, err)
		require.Contains(t, output, "wtf wt-clean sprockets --confirm")
		require.DirExists(t, scene.WorktreePath("sprockets"))

		output, err = scene.Repo.RunCliCommandAndGetOutput("wt-clean", "sprockets", "--confirm")
		require.NoError(t, err, "wt-clean failed: %s", output)
		require.NoDirExists(t, scene.WorktreePath("sprockets"))
	})

	t.Run("save-history writes the audit log", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)

		output, err := scene.Repo.RunCliCommandAndGetOutput("--save-history", "wt-new", "sprockets")
		require.NoError(t, err, "wt-new failed: %s", output)

		data, err := os.ReadFile(filepath.Join(scene.Repo.Dir, ".wtf_history.json"))
		require.NoError(t, err)
		require.Contains(t, string(data), "worktree")
	})
}

func TestGuideCommands(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, nil)

	output, err := scene.Repo.RunCliCommandAndGetOutput("quickstart")
	require.NoError(t, err, "quickstart failed: %s", output)
	require.Contains(t, output, "wtf wt-new")

	output, err = scene.Repo.RunCliCommandAndGetOutput("tutorial")
	require.NoError(t, err, "tutorial failed: %s", output)
	require.Contains(t, output, testhelpers.RepoName)
}
