package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"worktreeflow.dev/worktreeflow/internal/guard"
	"worktreeflow.dev/worktreeflow/internal/inspect"
	"worktreeflow.dev/worktreeflow/testhelpers"
)

func TestWorktreeStatus(t *testing.T) {
	t.Parallel()

	t.Run("reports sync, changes and suggestions", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		e := newTestEngine(t, scene)
		wt := newFeature(t, e, scene)
		require.NoError(t, wt.CreateChangeAndCommit("feature work", "feature"))
		require.NoError(t, wt.CreateUntrackedFile("notes.txt", "todo"))
		require.NoError(t, wt.CreateChange("edited", "init", true))
		require.NoError(t, scene.UpstreamCommit("u1"))

		report, err := e.WorktreeStatus(context.Background(), StatusOptions{Slug: "issue-42"})
		require.NoError(t, err)
		require.Equal(t, "feat/issue-42", report.Branch)
		require.Equal(t, scene.WorktreePath("issue-42"), report.Path)
		require.NotNil(t, report.Head)
		require.Equal(t, "feature work", report.Head.Subject)
		require.Equal(t, 1, report.BehindUpstream)
		require.Equal(t, 1, report.AheadUpstream)
		require.False(t, report.Published)
		require.Equal(t, 1, report.Modified)
		require.Equal(t, 1, report.Untracked)
		require.Nil(t, report.PR)
		require.Equal(t, inspect.Unknown, report.PRLookup)

		require.Contains(t, report.Suggestions, "Update with upstream: wtf wt-update issue-42")
		require.Contains(t, report.Suggestions, "Push changes: wtf wt-publish issue-42")
		require.Contains(t, report.Suggestions, "Commit changes: git add -A && git commit")
		require.Contains(t, report.Suggestions, "Create PR: wtf wt-pr issue-42")
	})

	t.Run("published branch counts unpushed commits and finds the pull request", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		mock, withForge := newForge(t)
		mock.AddPR(17, "alice:feat/issue-42", "open")
		e := newTestEngine(t, scene, withForge)
		wt := newFeature(t, e, scene)
		require.NoError(t, wt.CreateChangeAndCommit("first", "first"))
		_, err := e.PublishWorktree(context.Background(), PublishOptions{Slug: "issue-42"})
		require.NoError(t, err)
		require.NoError(t, wt.CreateChangeAndCommit("second", "second"))

		report, err := e.WorktreeStatus(context.Background(), StatusOptions{Slug: "issue-42"})
		require.NoError(t, err)
		require.True(t, report.Published)
		require.Equal(t, 1, report.Unpushed)
		require.Equal(t, inspect.Known, report.PRLookup)
		require.NotNil(t, report.PR)
		require.Equal(t, 17, report.PR.Number)
		require.NotContains(t, report.Suggestions, "Create PR: wtf wt-pr issue-42")
		require.Len(t, report.Recent, 3)
	})

	t.Run("missing worktree blocks", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		e := newTestEngine(t, scene)

		_, err := e.WorktreeStatus(context.Background(), StatusOptions{Slug: "ghost"})
		requireBlocked(t, err, guard.ConditionMissingWorktree)
	})
}
