package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const textFileName = "test.txt"

// GitRepo represents a Git repository for testing purposes.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'.
func NewGitRepo(dir string) (*GitRepo, error) {
	return newGitRepoInternal(dir, &gitRepoOptions{})
}

// NewGitRepoFromURL clones a repository from a remote URL.
func NewGitRepoFromURL(dir string, repoURL string) (*GitRepo, error) {
	return newGitRepoInternal(dir, &gitRepoOptions{repoURL: repoURL})
}

// OpenGitRepo wraps an existing repository or worktree directory.
func OpenGitRepo(dir string) *GitRepo {
	return &GitRepo{Dir: dir}
}

// gitRepoOptions holds options for creating a GitRepo.
type gitRepoOptions struct {
	repoURL string
}

// newGitRepoInternal is the internal implementation for creating a GitRepo.
func newGitRepoInternal(dir string, options *gitRepoOptions) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	if options.repoURL != "" {
		cmd := exec.Command("git", "clone", options.repoURL, dir)
		cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
		if output, err := cmd.CombinedOutput(); err != nil {
			return nil, fmt.Errorf("failed to clone repo: %w, output: %s", err, string(output))
		}
	} else {
		// Use git -c flags to avoid reading global config and set local configs
		cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", dir, "-b", "main")
		cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("failed to init repo: %w", err)
		}
	}

	// Configure Git user (required for commits, rebases and merges)
	if err := repo.runGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "commit.gpgsign", "false"); err != nil {
		return nil, err
	}

	return repo, nil
}

func initBare(dir string) error {
	cmd := exec.Command("git", "init", "--bare", "-b", "main", dir)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to create bare repo: %w, output: %s", err, string(output))
	}
	return nil
}

// runGitCommand executes a git command in the repository directory.
// Uses GIT_CONFIG_GLOBAL=/dev/null to avoid reading global config for faster operations.
func (r *GitRepo) runGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s failed: %w, output: %s", strings.Join(args, " "), err, string(output))
	}
	return nil
}

// RunGitCommand executes a git command and returns an error if it fails.
func (r *GitRepo) RunGitCommand(args ...string) error {
	return r.runGitCommand(args...)
}

// RunGitCommandAndGetOutput executes a git command and returns its trimmed output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RunCliCommandAndGetOutput runs the wtf binary in the repository directory
// and returns its combined output.
func (r *GitRepo) RunCliCommandAndGetOutput(args ...string) (string, error) {
	binaryPath := GetSharedBinaryPath()
	if binaryPath == "" {
		return "", fmt.Errorf("wtf binary not available: %w", GetBinaryError())
	}

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_GLOBAL=/dev/null",
		"WTF_NON_INTERACTIVE=1",
		"WTF_LOG_FILE_DISABLED=1",
		"NO_COLOR=1",
		"GITHUB_TOKEN=",
	)

	output, err := cmd.CombinedOutput()
	return string(output), err
}

// CreateChange creates a file change in the repository.
func (r *GitRepo) CreateChange(textValue string, prefix string, unstaged bool) error {
	fileName := textFileName
	if prefix != "" {
		fileName = prefix + "_" + fileName
	}
	filePath := filepath.Join(r.Dir, fileName)

	if err := os.WriteFile(filePath, []byte(textValue), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if !unstaged {
		return r.runGitCommand("add", filePath)
	}

	return nil
}

// CreateChangeAndCommit creates a file change and commits it.
func (r *GitRepo) CreateChangeAndCommit(textValue string, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	return r.runGitCommand("commit", "-m", textValue)
}

// CreateUntrackedFile writes a file without adding it to the index.
func (r *GitRepo) CreateUntrackedFile(name, contents string) error {
	return os.WriteFile(filepath.Join(r.Dir, name), []byte(contents), 0600)
}

// ReadFile returns the contents of a file in the working tree.
func (r *GitRepo) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CreateBranch creates a new branch without checking it out.
func (r *GitRepo) CreateBranch(name string) error {
	return r.runGitCommand("branch", name)
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.runGitCommand("checkout", "-b", name)
}

// CurrentBranchName returns the name of the current branch.
func (r *GitRepo) CurrentBranchName() (string, error) {
	return r.RunGitCommandAndGetOutput("branch", "--show-current")
}

// splitLines splits a string by newlines and returns non-empty lines.
func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

// PushBranch pushes a branch to a remote.
func (r *GitRepo) PushBranch(remote, branch string) error {
	return r.runGitCommand("push", "-u", remote, branch)
}

// Fetch fetches a remote.
func (r *GitRepo) Fetch(remote string) error {
	return r.runGitCommand("fetch", remote)
}

// GetRevision returns the SHA of a revision (branch, tag, or commit reference).
func (r *GitRepo) GetRevision(rev string) (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", rev)
}

// BareRevision returns the SHA of a branch inside a bare repository.
func BareRevision(bareDir, branch string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "refs/heads/"+branch)
	cmd.Dir = bareDir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to read %s in %s: %w", branch, bareDir, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// BareBranchExists reports whether a bare repository has branch.
func BareBranchExists(bareDir, branch string) bool {
	_, err := BareRevision(bareDir, branch)
	return err == nil
}

// HasUncommittedChanges checks for staged, unstaged or untracked changes.
func (r *GitRepo) HasUncommittedChanges() (bool, error) {
	output, err := r.RunGitCommandAndGetOutput("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return output != "", nil
}

// StashCount returns the number of stash entries.
func (r *GitRepo) StashCount() (int, error) {
	output, err := r.RunGitCommandAndGetOutput("stash", "list")
	if err != nil {
		return 0, err
	}
	return len(splitLines(output)), nil
}

// GetLocalBranches returns a list of all local branches.
func (r *GitRepo) GetLocalBranches() ([]string, error) {
	output, err := r.RunGitCommandAndGetOutput("branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// IsAncestor checks if the first ref is an ancestor of the second ref.
func (r *GitRepo) IsAncestor(ancestor, descendant string) (bool, error) {
	err := r.runGitCommand("merge-base", "--is-ancestor", ancestor, descendant)
	if err == nil {
		return true, nil
	}
	return false, nil
}
