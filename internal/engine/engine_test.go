package engine

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"worktreeflow.dev/worktreeflow/internal/config"
	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/testhelpers"
)

var fixedNow = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

// newTestEngine opens the scene's repository with default settings and a
// fixed backup clock. configure can adjust the options before construction.
func newTestEngine(t *testing.T, scene *testhelpers.Scene, configure ...func(*Options)) *engineImpl {
	t.Helper()
	repo, err := git.Open(context.Background(), scene.Repo.Dir, git.Options{})
	require.NoError(t, err)

	settings := config.Defaults()
	settings.UpstreamRepo = "acme/widgets"

	opts := Options{Repo: repo, Settings: settings, Cwd: scene.Repo.Dir}
	for _, fn := range configure {
		fn(&opts)
	}

	e := New(opts).(*engineImpl)
	e.Guard().Now = func() time.Time { return fixedNow }
	return e
}

// requireBlocked asserts err is a PreconditionBlockedError for condition
func requireBlocked(t *testing.T, err error, condition string) *errors.PreconditionBlockedError {
	t.Helper()
	require.ErrorIs(t, err, errors.ErrPreconditionBlocked)
	var blocked *errors.PreconditionBlockedError
	require.True(t, stderrors.As(err, &blocked))
	require.Equal(t, condition, blocked.Condition)
	return blocked
}

func requireRevision(t *testing.T, expected string, repo *testhelpers.GitRepo, rev string) {
	t.Helper()
	actual, err := repo.GetRevision(rev)
	require.NoError(t, err)
	require.Equal(t, expected, actual)
}

func bareRevision(t *testing.T, bare, branch string) string {
	t.Helper()
	rev, err := testhelpers.BareRevision(bare, branch)
	require.NoError(t, err)
	return rev
}

func backupBranches(t *testing.T, scene *testhelpers.Scene) []string {
	t.Helper()
	branches, err := scene.Repo.GetLocalBranches()
	require.NoError(t, err)
	var backups []string
	for _, b := range branches {
		if strings.HasPrefix(b, "backup/") {
			backups = append(backups, b)
		}
	}
	return backups
}

func TestNew(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.ForkSceneSetup)
	e := newTestEngine(t, scene)

	require.Equal(t, "acme/widgets", e.Settings().UpstreamRepo)
	require.NotNil(t, e.Inspector())
	require.Equal(t, "main", e.base(""))
	require.Equal(t, "develop", e.base("develop"))
	require.Equal(t, "upstream/main", e.upstreamRef("main"))
	require.Equal(t, "origin/feat/x", e.originRef("feat/x"))

	topo, err := e.Topology(context.Background())
	require.NoError(t, err)
	require.Equal(t, "acme/widgets", topo.UpstreamRepo)
	require.False(t, topo.HasForkOwner())
}

// racingRunner runs git for real but lets another client move a remote
// just before the next push, the way a concurrent contributor would.
type racingRunner struct {
	git.Runner
	race   func() error
	pushes int
}

func (r *racingRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	if len(args) > 0 && args[0] == "push" {
		r.pushes++
		if race := r.race; race != nil {
			r.race = nil
			if err := race(); err != nil {
				return "", err
			}
		}
	}
	return r.Runner.Run(ctx, dir, args...)
}

// raceNextPush arms race for the next push and resets the push count
func (r *racingRunner) raceNextPush(race func() error) {
	r.race = race
	r.pushes = 0
}

// newRacingEngine is newTestEngine with every git command going through a
// racingRunner
func newRacingEngine(t *testing.T, scene *testhelpers.Scene, configure ...func(*Options)) (*engineImpl, *racingRunner) {
	t.Helper()
	runner := &racingRunner{Runner: git.NewCommandRunner(scene.Repo.Dir)}
	withRunner := func(o *Options) {
		repo, err := git.Open(context.Background(), scene.Repo.Dir, git.Options{Runner: runner})
		require.NoError(t, err)
		o.Repo = repo
	}
	return newTestEngine(t, scene, append([]func(*Options){withRunner}, configure...)...), runner
}

type recordingConfirmer struct {
	answer   bool
	messages []string
}

func (c *recordingConfirmer) Confirm(_ context.Context, message string) (bool, error) {
	c.messages = append(c.messages, message)
	return c.answer, nil
}
