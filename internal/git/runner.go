package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	wtferrors "worktreeflow.dev/worktreeflow/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// ErrStaleRemoteInfo indicates that a push failed because the remote has changed
var ErrStaleRemoteInfo = errors.New("stale info")

// Runner executes git commands. dir overrides the runner's working
// directory when it is not empty.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// Run executes a git command and returns its trimmed output
func (r *CommandRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	if dir == "" {
		dir = r.workingDir
	}
	return runCommand(ctx, dir, "git", args...)
}

// RunGHCommandWithContext executes a gh command with the given context.
func RunGHCommandWithContext(ctx context.Context, args ...string) (string, error) {
	return runCommand(ctx, "", "gh", args...)
}

func runCommand(ctx context.Context, dir string, name string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", wtferrors.NewGitCommandError(name, args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", wtferrors.NewGitCommandError(name, args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// exitCode returns the exit status carried by a failed command, or -1
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func splitLines(output string) []string {
	if output == "" {
		return []string{}
	}
	return strings.Split(output, "\n")
}
