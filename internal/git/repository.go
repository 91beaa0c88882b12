package git

import (
	"context"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"

	"worktreeflow.dev/worktreeflow/internal/audit"
)

// Logger receives command traces
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}

// Options configures a Repo
type Options struct {
	// DryRun records mutating commands without executing them
	DryRun bool
	Audit  *audit.Log
	Logger Logger
	// Runner overrides the command runner, mostly for tests
	Runner Runner
}

// Repo is the main repository plus every worktree attached to it
type Repo struct {
	root   string
	runner Runner
	audit  *audit.Log
	dryRun bool
	log    Logger
}

// Open finds the main repository that dir belongs to. dir may be the main
// working tree, a linked worktree or any directory below either.
func Open(ctx context.Context, dir string, opts Options) (*Repo, error) {
	runner := opts.Runner
	if runner == nil {
		runner = NewCommandRunner(dir)
	}

	commonDir, err := runner.Run(ctx, dir, "rev-parse", "--git-common-dir")
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	if !filepath.IsAbs(commonDir) {
		commonDir = filepath.Join(dir, commonDir)
	}
	commonDir, err = filepath.Abs(commonDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	root := filepath.Dir(commonDir)
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}
	auditLog := opts.Audit
	if auditLog == nil {
		auditLog = audit.NewLog()
	}

	if opts.Runner == nil {
		runner = NewCommandRunner(root)
	}

	return &Repo{
		root:   root,
		runner: runner,
		audit:  auditLog,
		dryRun: opts.DryRun,
		log:    log,
	}, nil
}

// Root returns the main working tree directory
func (r *Repo) Root() string {
	return r.root
}

// Name returns the directory name of the main working tree
func (r *Repo) Name() string {
	return filepath.Base(r.root)
}

// DryRun reports whether mutating commands are skipped
func (r *Repo) DryRun() bool {
	return r.dryRun
}

// Audit returns the log every mutating command is recorded in
func (r *Repo) Audit() *audit.Log {
	return r.audit
}

// open returns a fresh go-git handle. A new handle is opened for every query
// so that objects and packs written by git commands are visible.
func (r *Repo) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(r.root, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return repo, nil
}

// read runs a non-mutating git command
func (r *Repo) read(ctx context.Context, dir string, args ...string) (string, error) {
	return r.runner.Run(ctx, dir, args...)
}

// mutate records a mutating git command and runs it unless in dry-run mode
func (r *Repo) mutate(ctx context.Context, dir, description string, args ...string) (string, error) {
	command := audit.CommandText("git", args...)
	idx := r.audit.Record(command, description)

	if r.dryRun {
		r.log.Info("[dry-run] would run: %s", command)
		return "", nil
	}

	r.log.Debug("$ %s", command)
	output, err := r.runner.Run(ctx, dir, args...)
	if err != nil {
		r.audit.Complete(idx, fmt.Sprintf("failed: %v", err))
		return output, err
	}
	r.audit.Complete(idx, "success")
	return output, nil
}
