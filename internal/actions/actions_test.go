package actions

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"worktreeflow.dev/worktreeflow/internal/audit"
	"worktreeflow.dev/worktreeflow/internal/config"
	"worktreeflow.dev/worktreeflow/internal/engine"
	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/github"
	"worktreeflow.dev/worktreeflow/internal/runtime"
	"worktreeflow.dev/worktreeflow/internal/tui"
	"worktreeflow.dev/worktreeflow/testhelpers"
)

// newTestContext wires a runtime context for scene with output captured in
// the returned buffer. forge may be nil.
func newTestContext(t *testing.T, scene *testhelpers.Scene, forge *testhelpers.MockGitHubServerConfig) (*runtime.Context, *bytes.Buffer) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	var out bytes.Buffer
	splog, err := tui.NewSplogWithConfig("", &out)
	require.NoError(t, err)

	auditLog := audit.NewLog()
	repo, err := git.Open(context.Background(), scene.Repo.Dir, git.Options{Audit: auditLog, Logger: splog})
	require.NoError(t, err)

	settings := config.Defaults()
	settings.UpstreamRepo = "acme/widgets"

	opts := engine.Options{Repo: repo, Settings: settings, Logger: splog, Cwd: scene.Repo.Dir}
	var client github.Client
	if forge != nil {
		forge.Owner, forge.Repo = "acme", "widgets"
		client = testhelpers.NewMockForge(t, forge)
		opts.Forge = client
		opts.Capability = github.Capability{Token: "test-token", TokenSource: "GITHUB_TOKEN"}
	}

	return &runtime.Context{
		Context:    context.Background(),
		Splog:      splog,
		RepoRoot:   repo.Root(),
		Repo:       repo,
		Engine:     engine.New(opts),
		Forge:      client,
		Capability: opts.Capability,
		Settings:   settings,
		Audit:      auditLog,
		Cwd:        scene.Repo.Dir,
	}, &out
}

func TestWorktreeActions(t *testing.T) {
	t.Parallel()

	t.Run("wt-new points at the new worktree", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		ctx, out := newTestContext(t, scene, nil)

		require.NoError(t, WorktreeNewAction(ctx, WorktreeNewOptions{Slug: "issue-42"}))
		require.Contains(t, out.String(), "Created worktree for feat/issue-42")
		require.Contains(t, out.String(), "cd "+scene.WorktreePath("issue-42"))
		require.Contains(t, out.String(), "wtf wt-publish issue-42")

		out.Reset()
		require.NoError(t, WorktreeNewAction(ctx, WorktreeNewOptions{Slug: "issue-42"}))
		require.Contains(t, out.String(), "already exists")
	})

	t.Run("wt-list shows every worktree", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		ctx, out := newTestContext(t, scene, nil)
		require.NoError(t, WorktreeNewAction(ctx, WorktreeNewOptions{Slug: "issue-42"}))
		out.Reset()

		require.NoError(t, WorktreeListAction(ctx))
		require.Contains(t, out.String(), "=== Git Worktrees ===")
		require.Contains(t, out.String(), scene.WorktreePath("issue-42"))
		require.Contains(t, out.String(), "feat/issue-42")
		require.Contains(t, out.String(), "main")
	})

	t.Run("wt-status reports counts and suggestions", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		ctx, out := newTestContext(t, scene, nil)
		require.NoError(t, WorktreeNewAction(ctx, WorktreeNewOptions{Slug: "issue-42"}))
		wt := testhelpers.OpenGitRepo(scene.WorktreePath("issue-42"))
		require.NoError(t, wt.CreateChangeAndCommit("Add sprocket", "feature"))
		require.NoError(t, wt.CreateUntrackedFile("notes.txt", "todo"))
		out.Reset()

		require.NoError(t, WorktreeStatusAction(ctx, WorktreeStatusOptions{Slug: "issue-42"}))
		output := out.String()
		require.Contains(t, output, "=== Status: issue-42 ===")
		require.Contains(t, output, "0 behind, 1 ahead of upstream/main")
		require.Contains(t, output, "not published")
		require.Contains(t, output, "0 modified, 1 untracked")
		require.Contains(t, output, "unknown")
		require.Contains(t, output, "Add sprocket")
		require.Contains(t, output, "wtf wt-publish issue-42")
		require.Contains(t, output, "wtf wt-pr issue-42")
	})

	t.Run("wt-update conflict prints the way out", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		ctx, out := newTestContext(t, scene, nil)
		require.NoError(t, WorktreeNewAction(ctx, WorktreeNewOptions{Slug: "issue-42"}))
		wt := testhelpers.OpenGitRepo(scene.WorktreePath("issue-42"))
		require.NoError(t, wt.CreateChangeAndCommit("mine", "upstream"))
		require.NoError(t, scene.UpstreamCommit("theirs"))
		out.Reset()

		err := WorktreeUpdateAction(ctx, WorktreeUpdateOptions{Slug: "issue-42"})
		require.ErrorIs(t, err, errors.ErrConflictDuringRewrite)
		require.NotEmpty(t, errors.BackupOf(err))
		require.Contains(t, out.String(), "Hit conflict during rebase of feat/issue-42")
		require.Contains(t, out.String(), "upstream_test.txt")
		require.Contains(t, out.String(), "git rebase --abort")
	})

	t.Run("wt-update preview lists the commits to replay", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		ctx, out := newTestContext(t, scene, nil)
		require.NoError(t, WorktreeNewAction(ctx, WorktreeNewOptions{Slug: "issue-42"}))
		wt := testhelpers.OpenGitRepo(scene.WorktreePath("issue-42"))
		require.NoError(t, wt.CreateChangeAndCommit("feature work", "feature"))
		require.NoError(t, scene.UpstreamCommit("u1"))
		out.Reset()

		require.NoError(t, WorktreeUpdateAction(ctx, WorktreeUpdateOptions{Slug: "issue-42", Preview: true}))
		require.Contains(t, out.String(), "1 commit(s) behind upstream and 1 ahead")
		require.Contains(t, out.String(), "Would rebase 1 commit(s)")
		require.Contains(t, out.String(), "feature work")
		require.Contains(t, out.String(), "backup branch would be created")
	})

	t.Run("wt-clean preview prints the plan", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		ctx, out := newTestContext(t, scene, nil)
		require.NoError(t, WorktreeNewAction(ctx, WorktreeNewOptions{Slug: "issue-42"}))
		out.Reset()

		require.NoError(t, WorktreeCleanAction(ctx, WorktreeCleanOptions{Slug: "issue-42", Preview: true}))
		require.Contains(t, out.String(), "Would:")
		require.Contains(t, out.String(), "Remove worktree at "+scene.WorktreePath("issue-42"))
		require.Contains(t, out.String(), "Delete local branch feat/issue-42")
		require.DirExists(t, scene.WorktreePath("issue-42"))
	})

	t.Run("wt-clean with confirmation lists each step", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		ctx, out := newTestContext(t, scene, nil)
		require.NoError(t, WorktreeNewAction(ctx, WorktreeNewOptions{Slug: "issue-42"}))
		out.Reset()

		require.NoError(t, WorktreeCleanAction(ctx, WorktreeCleanOptions{Slug: "issue-42", Confirm: true}))
		require.Contains(t, out.String(), "✓ Remove worktree "+scene.WorktreePath("issue-42"))
		require.Contains(t, out.String(), "✓ Delete local branch feat/issue-42")
		require.Contains(t, out.String(), "Cleaned up issue-42")
		require.NoDirExists(t, scene.WorktreePath("issue-42"))
	})

	t.Run("wt-pr reports the created pull request", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		mock := testhelpers.NewMockGitHubServerConfig()
		ctx, out := newTestContext(t, scene, mock)
		require.NoError(t, WorktreeNewAction(ctx, WorktreeNewOptions{Slug: "issue-42"}))
		wt := testhelpers.OpenGitRepo(scene.WorktreePath("issue-42"))
		require.NoError(t, wt.CreateChangeAndCommit("Add sprocket support", "feature"))
		out.Reset()

		require.NoError(t, WorktreePRAction(ctx, WorktreePROptions{Slug: "issue-42"}))
		require.Contains(t, out.String(), "Created pull request #1: Add sprocket support")
		require.Len(t, mock.Created(), 1)

		out.Reset()
		require.NoError(t, WorktreePRAction(ctx, WorktreePROptions{Slug: "issue-42"}))
		require.Contains(t, out.String(), "Pull request #1 already exists for feat/issue-42")
		require.Len(t, mock.Created(), 1)
	})
}

func TestWorktreeNewSyncsFirst(t *testing.T) {
	scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
	ctx, out := newTestContext(t, scene, nil)
	require.NoError(t, scene.UpstreamCommit("u1"))

	require.NoError(t, WorktreeNewAction(ctx, WorktreeNewOptions{Slug: "issue-7"}))
	require.Contains(t, out.String(), "Synced main with upstream (1 new commit(s))")
}

func TestCheckActions(t *testing.T) {
	t.Parallel()

	t.Run("fork layout passes every check", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		ctx, out := newTestContext(t, scene, nil)

		require.NoError(t, CheckRepoAction(ctx))
		require.NoError(t, CheckOriginAction(ctx))
		require.NoError(t, CheckUpstreamAction(ctx))
		require.Contains(t, out.String(), "✓ Inside Git repository")
		require.Contains(t, out.String(), "Name: "+testhelpers.RepoName)
		require.Contains(t, out.String(), "URL: "+scene.Origin)
		require.Contains(t, out.String(), "URL: "+scene.Upstream)
	})

	t.Run("missing remotes fail", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)
		ctx, _ := newTestContext(t, scene, nil)

		err := CheckOriginAction(ctx)
		require.ErrorIs(t, err, errors.ErrEnvironmentMissing)
		require.Contains(t, errors.RemediesOf(err)[0], "wtf fork-setup")

		err = CheckUpstreamAction(ctx)
		require.ErrorIs(t, err, errors.ErrEnvironmentMissing)
		require.Equal(t, []string{"wtf upstream-add"}, errors.RemediesOf(err))
	})
}

func TestRemoteActions(t *testing.T) {
	t.Parallel()

	t.Run("upstream-add reports the new remote", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)
		ctx, out := newTestContext(t, scene, nil)

		require.NoError(t, UpstreamAddAction(ctx, UpstreamAddOptions{}))
		require.Contains(t, out.String(), "Added upstream remote: git@github.com:acme/widgets.git")
		require.Contains(t, out.String(), "upstream")
	})

	t.Run("fork-setup lists what changed", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)
		require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "origin", "git@github.com:acme/widgets.git"))
		ctx, out := newTestContext(t, scene, testhelpers.NewMockGitHubServerConfig())

		require.NoError(t, ForkSetupAction(ctx))
		require.Contains(t, out.String(), "GitHub user: alice")
		require.Contains(t, out.String(), "Created fork alice/widgets")
		require.Contains(t, out.String(), "Renamed the upstream clone remote to upstream")
		require.Contains(t, out.String(), "Added remote origin")
		require.Contains(t, out.String(), "git@github.com:alice/widgets.git")
	})
}

func TestConfigActions(t *testing.T) {
	scene := testhelpers.NewSceneParallel(t, nil)
	var out bytes.Buffer
	splog, err := tui.NewSplogWithConfig("", &out)
	require.NoError(t, err)

	require.NoError(t, ConfigSetAction(splog, scene.Repo.Dir, "base-branch", "develop"))
	require.Contains(t, out.String(), "Set base-branch to: develop")

	out.Reset()
	require.NoError(t, ConfigGetAction(splog, scene.Repo.Dir, "base-branch"))
	require.Equal(t, "develop\n", out.String())

	out.Reset()
	require.NoError(t, ConfigListAction(splog, scene.Repo.Dir))
	require.Contains(t, out.String(), "feature-prefix")
	require.Contains(t, out.String(), "develop")

	require.Error(t, ConfigSetAction(splog, scene.Repo.Dir, "bogus", "x"))
	require.Error(t, ConfigGetAction(splog, scene.Repo.Dir, "bogus"))
}

func TestGuides(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	var out bytes.Buffer
	splog, err := tui.NewSplogWithConfig("", &out)
	require.NoError(t, err)

	TutorialAction(splog, "myrepo")
	require.Contains(t, out.String(), "Git Workflow Tutorial")
	require.Contains(t, out.String(), "cd ../wt/myrepo/issue-199")
	require.Contains(t, out.String(), "wtf wt-clean issue-199 --confirm")

	out.Reset()
	QuickstartAction(splog)
	require.Contains(t, out.String(), "Quickstart Guide")
	require.Contains(t, out.String(), "wtf wt-update feat-x")
}
