package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
// With ForkSceneSetup it also has bare upstream and origin repositories wired
// up the way a contributor's fork clone is.
type Scene struct {
	Dir  string
	Repo *GitRepo

	// Upstream and Origin are bare repository paths, set by ForkSceneSetup
	Upstream string
	Origin   string

	scratch map[string]*GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// RepoName is the directory name of the scene's main repository
const RepoName = "myrepo"

// NewSceneParallel creates a new test scene without changing the process
// working directory, so it is safe to use from parallel tests.
// Cleanup is registered with t.Cleanup().
func NewSceneParallel(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	return newScene(t, setup)
}

func newScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "wtf-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	// Normalize (on macOS /var is symlinked to /private/var)
	if resolved, err := filepath.EvalSymlinks(tmpDir); err == nil {
		tmpDir = resolved
	}
	t.Cleanup(func() {
		if os.Getenv("DEBUG") == "" {
			_ = os.RemoveAll(tmpDir)
		}
	})

	repoDir := filepath.Join(tmpDir, "code", RepoName)
	if err := os.MkdirAll(repoDir, 0750); err != nil {
		t.Fatalf("Failed to create repo dir: %v", err)
	}

	repo, err := NewGitRepo(repoDir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}
	if err := repo.CreateChangeAndCommit("initial", "init"); err != nil {
		t.Fatalf("Failed to create initial commit: %v", err)
	}

	scene := &Scene{
		Dir:     tmpDir,
		Repo:    repo,
		scratch: map[string]*GitRepo{},
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// ForkSceneSetup creates bare upstream and origin repositories containing
// main, adds them as the "upstream" and "origin" remotes and fetches both.
func ForkSceneSetup(scene *Scene) error {
	remotesDir := filepath.Join(scene.Dir, "remotes")
	scene.Upstream = filepath.Join(remotesDir, "upstream.git")
	scene.Origin = filepath.Join(remotesDir, "origin.git")

	for _, bare := range []string{scene.Upstream, scene.Origin} {
		if err := initBare(bare); err != nil {
			return err
		}
	}

	for name, url := range map[string]string{"upstream": scene.Upstream, "origin": scene.Origin} {
		if err := scene.Repo.RunGitCommand("remote", "add", name, url); err != nil {
			return fmt.Errorf("failed to add remote %s: %w", name, err)
		}
		if err := scene.Repo.PushBranch(name, "main"); err != nil {
			return err
		}
	}

	if err := scene.Repo.RunGitCommand("branch", "--set-upstream-to=origin/main", "main"); err != nil {
		return err
	}
	return scene.Repo.RunGitCommand("fetch", "--all")
}

// UpstreamCommit lands a commit on upstream's main as another contributor would
func (s *Scene) UpstreamCommit(message string) error {
	return s.remoteCommit("upstream", s.Upstream, "main", message)
}

// OriginCommit lands a commit directly on origin's main
func (s *Scene) OriginCommit(message string) error {
	return s.remoteCommit("origin", s.Origin, "main", message)
}

// remoteCommit commits through a scratch clone of bare and pushes branch back
func (s *Scene) remoteCommit(name, bare, branch, message string) error {
	if bare == "" {
		return fmt.Errorf("scene has no %s remote; use ForkSceneSetup", name)
	}

	work, ok := s.scratch[name]
	if !ok {
		var err error
		work, err = NewGitRepoFromURL(filepath.Join(s.Dir, "scratch", name), bare)
		if err != nil {
			return err
		}
		s.scratch[name] = work
	}

	if err := work.RunGitCommand("pull", "--ff-only", "origin", branch); err != nil {
		return fmt.Errorf("failed to update scratch clone of %s: %w", name, err)
	}
	if err := work.CreateChangeAndCommit(message, name); err != nil {
		return err
	}
	return work.PushBranch("origin", branch)
}

// WorktreePath returns where a feature worktree lives with the default settings
func (s *Scene) WorktreePath(slug string) string {
	return filepath.Join(s.Dir, "code", "wt", RepoName, slug)
}
