package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/guard"
	"worktreeflow.dev/worktreeflow/testhelpers"
)

func TestSyncMain(t *testing.T) {
	t.Parallel()

	t.Run("up to date", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		e := newTestEngine(t, scene)

		result, err := e.SyncMain(context.Background(), SyncOptions{})
		require.NoError(t, err)
		require.Equal(t, SyncUpToDate, result.State)
		require.Equal(t, "main", result.Base)
		require.Zero(t, result.Behind)
		require.False(t, result.Pushed)
	})

	t.Run("fast-forwards to upstream and pushes to origin", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		require.NoError(t, scene.UpstreamCommit("u1"))
		require.NoError(t, scene.UpstreamCommit("u2"))
		require.NoError(t, scene.UpstreamCommit("u3"))
		e := newTestEngine(t, scene)
		ctx := context.Background()

		result, err := e.SyncMain(ctx, SyncOptions{})
		require.NoError(t, err)
		require.Equal(t, SyncFastForwarded, result.State)
		require.Equal(t, 3, result.Behind)
		require.Len(t, result.Incoming, 3)
		require.True(t, result.Pushed)

		upstreamTip := bareRevision(t, scene.Upstream, "main")
		requireRevision(t, upstreamTip, scene.Repo, "main")
		require.Equal(t, upstreamTip, bareRevision(t, scene.Origin, "main"))

		result, err = e.SyncMain(ctx, SyncOptions{})
		require.NoError(t, err)
		require.Equal(t, SyncUpToDate, result.State)
	})

	t.Run("diverged base is left alone", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		require.NoError(t, scene.UpstreamCommit("u1"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("local work", "local"))
		before, err := scene.Repo.GetRevision("main")
		require.NoError(t, err)
		e := newTestEngine(t, scene)

		_, err = e.SyncMain(context.Background(), SyncOptions{})
		blocked := requireBlocked(t, err, guard.ConditionDiverged)
		require.Contains(t, blocked.Remedies, forceSyncRemedy)
		require.Contains(t, strings.Join(blocked.Details, "\n"), "local work")
		requireRevision(t, before, scene.Repo, "main")
	})

	t.Run("uncommitted changes block", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		require.NoError(t, scene.UpstreamCommit("u1"))
		require.NoError(t, scene.Repo.CreateChange("dirty", "init", true))
		e := newTestEngine(t, scene)

		_, err := e.SyncMain(context.Background(), SyncOptions{})
		requireBlocked(t, err, guard.ConditionDirtyTree)

		contents, err := scene.Repo.ReadFile("init_test.txt")
		require.NoError(t, err)
		require.Equal(t, "dirty", contents)
	})

	t.Run("untracked files do not block", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		require.NoError(t, scene.UpstreamCommit("u1"))
		require.NoError(t, scene.Repo.CreateUntrackedFile("notes.txt", "scratch"))
		e := newTestEngine(t, scene)

		result, err := e.SyncMain(context.Background(), SyncOptions{})
		require.NoError(t, err)
		require.Equal(t, SyncFastForwarded, result.State)
	})

	t.Run("rejected push suggests a plain retry", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		require.NoError(t, scene.UpstreamCommit("u1"))
		e, runner := newRacingEngine(t, scene)
		runner.raceNextPush(func() error { return scene.OriginCommit("fork only") })

		result, err := e.SyncMain(context.Background(), SyncOptions{})
		require.ErrorIs(t, err, errors.ErrRemoteOperationFailed)
		require.Equal(t, SyncFastForwarded, result.State)
		require.False(t, result.Pushed)
		require.Equal(t, []string{"git push origin main"}, errors.RemediesOf(err))
		require.Equal(t, 1, runner.pushes)
	})

	t.Run("invalid base is rejected", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		e := newTestEngine(t, scene)

		_, err := e.SyncMain(context.Background(), SyncOptions{Base: "bad..name"})
		require.ErrorIs(t, err, errors.ErrValidation)
	})
}

func TestForceSync(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) *testhelpers.Scene {
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		require.NoError(t, scene.UpstreamCommit("u1"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("local work", "local"))
		return scene
	}

	t.Run("requires confirmation and lists lost commits", func(t *testing.T) {
		t.Parallel()
		scene := setup(t)
		before, err := scene.Repo.GetRevision("main")
		require.NoError(t, err)
		e := newTestEngine(t, scene)

		_, err = e.ForceSync(context.Background(), ForceSyncOptions{})
		blocked := requireBlocked(t, err, guard.ConditionUnconfirmed)
		require.Contains(t, strings.Join(blocked.Details, "\n"), "local work")
		requireRevision(t, before, scene.Repo, "main")
		require.Empty(t, backupBranches(t, scene))
	})

	t.Run("resets to upstream with one backup", func(t *testing.T) {
		t.Parallel()
		scene := setup(t)
		before, err := scene.Repo.GetRevision("main")
		require.NoError(t, err)
		e := newTestEngine(t, scene)

		result, err := e.ForceSync(context.Background(), ForceSyncOptions{Confirm: true})
		require.NoError(t, err)
		require.Equal(t, SyncForced, result.State)
		require.Equal(t, "backup/main-20240305-140709", result.Backup)
		require.Len(t, result.Lost, 1)
		require.True(t, result.Pushed)

		require.Equal(t, []string{result.Backup}, backupBranches(t, scene))
		requireRevision(t, before, scene.Repo, result.Backup)

		upstreamTip := bareRevision(t, scene.Upstream, "main")
		requireRevision(t, upstreamTip, scene.Repo, "main")
		require.Equal(t, upstreamTip, bareRevision(t, scene.Origin, "main"))
	})

	t.Run("lost lease race keeps the backup and never forces", func(t *testing.T) {
		t.Parallel()
		scene := setup(t)
		e, runner := newRacingEngine(t, scene)
		runner.raceNextPush(func() error { return scene.OriginCommit("pushed meanwhile") })

		result, err := e.ForceSync(context.Background(), ForceSyncOptions{Confirm: true})
		require.ErrorIs(t, err, errors.ErrRemoteOperationFailed)
		require.ErrorIs(t, err, git.ErrStaleRemoteInfo)
		require.Equal(t, "backup/main-20240305-140709", errors.BackupOf(err))
		require.Equal(t, []string{"git fetch origin", "wtf sync-main-force --confirm"}, errors.RemediesOf(err))
		require.False(t, result.Pushed)
		require.Equal(t, 1, runner.pushes)

		// The concurrent commit survives on origin
		require.NotEqual(t, bareRevision(t, scene.Upstream, "main"), bareRevision(t, scene.Origin, "main"))
		for _, remedy := range errors.RemediesOf(err) {
			require.NotContains(t, remedy, "--force ")
		}
	})

	t.Run("confirmer can stand in for the flag", func(t *testing.T) {
		t.Parallel()
		scene := setup(t)
		confirmer := &recordingConfirmer{answer: true}
		e := newTestEngine(t, scene, func(o *Options) { o.Confirmer = confirmer })

		result, err := e.ForceSync(context.Background(), ForceSyncOptions{})
		require.NoError(t, err)
		require.Equal(t, SyncForced, result.State)
		require.Len(t, confirmer.messages, 1)
		require.Contains(t, confirmer.messages[0], "1 commit(s) will be discarded")
	})
}

func TestZeroCheckoutSync(t *testing.T) {
	t.Parallel()

	t.Run("moves origin to upstream without touching the checkout", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		require.NoError(t, scene.UpstreamCommit("u1"))
		require.NoError(t, scene.UpstreamCommit("u2"))
		before, err := scene.Repo.GetRevision("main")
		require.NoError(t, err)
		e := newTestEngine(t, scene)

		result, err := e.ZeroCheckoutSync(context.Background(), SyncOptions{})
		require.NoError(t, err)
		require.Equal(t, SyncFastForwarded, result.State)
		require.Equal(t, 2, result.Behind)
		require.True(t, result.Pushed)

		require.Equal(t, bareRevision(t, scene.Upstream, "main"), bareRevision(t, scene.Origin, "main"))
		requireRevision(t, before, scene.Repo, "main")
	})

	t.Run("up to date", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		e := newTestEngine(t, scene)

		result, err := e.ZeroCheckoutSync(context.Background(), SyncOptions{})
		require.NoError(t, err)
		require.Equal(t, SyncUpToDate, result.State)
		require.False(t, result.Pushed)
	})

	t.Run("origin diverged from upstream blocks without pushing", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		require.NoError(t, scene.OriginCommit("fork only"))
		require.NoError(t, scene.UpstreamCommit("u1"))
		originBefore := bareRevision(t, scene.Origin, "main")
		e, runner := newRacingEngine(t, scene)

		_, err := e.ZeroCheckoutSync(context.Background(), SyncOptions{})
		blocked := requireBlocked(t, err, guard.ConditionDiverged)
		require.Contains(t, blocked.Remedies, "wtf sync-main-force --confirm")
		require.Equal(t, originBefore, bareRevision(t, scene.Origin, "main"))
		require.Zero(t, runner.pushes)
	})

	t.Run("rejected push points at sync-main", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		require.NoError(t, scene.UpstreamCommit("u1"))
		e, runner := newRacingEngine(t, scene)
		runner.raceNextPush(func() error { return scene.OriginCommit("pushed meanwhile") })

		_, err := e.ZeroCheckoutSync(context.Background(), SyncOptions{})
		require.ErrorIs(t, err, errors.ErrRemoteOperationFailed)
		require.Equal(t, []string{"wtf sync-main"}, errors.RemediesOf(err))
		require.Equal(t, 1, runner.pushes)
	})

	t.Run("unpushed local commits block", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
		require.NoError(t, scene.UpstreamCommit("u1"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("local work", "local"))
		originBefore := bareRevision(t, scene.Origin, "main")
		e := newTestEngine(t, scene)

		_, err := e.ZeroCheckoutSync(context.Background(), SyncOptions{})
		blocked := requireBlocked(t, err, guard.ConditionUnpushedCommits)
		require.Contains(t, blocked.Remedies, "git push origin main")
		require.Equal(t, originBefore, bareRevision(t, scene.Origin, "main"))
	})
}
