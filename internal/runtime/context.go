package runtime

import (
	"context"
	"fmt"
	"os"

	"worktreeflow.dev/worktreeflow/internal/audit"
	"worktreeflow.dev/worktreeflow/internal/config"
	"worktreeflow.dev/worktreeflow/internal/engine"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/github"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// Context provides access to the engine, output and session state for commands
type Context struct {
	Context    context.Context
	Splog      *tui.Splog
	RepoRoot   string
	Repo       *git.Repo
	Engine     engine.Engine
	Forge      github.Client
	Capability github.Capability
	Settings   config.Settings
	Session    config.Session
	Audit      *audit.Log
	// Cwd is the directory the command was started from
	Cwd string
}

// Options configures GetContext
type Options struct {
	Session config.Session
	Splog   *tui.Splog
	// Audit receives every mutating command; a new log is created when nil
	Audit *audit.Log
	// Dir is where to look for the repository, the working directory when empty
	Dir string
	// Forge overrides the GitHub client, mostly for tests
	Forge github.Client
}

// GetContext opens the repository containing opts.Dir, loads its settings,
// checks for forge access and wires up an engine.
func GetContext(ctx context.Context, opts Options) (*Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	splog := opts.Splog
	if splog == nil {
		splog = tui.NewSplog()
	}
	auditLog := opts.Audit
	if auditLog == nil {
		auditLog = audit.NewLog()
	}

	cwd := opts.Dir
	if cwd == "" {
		var err error
		cwd, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	repo, err := git.Open(ctx, cwd, git.Options{
		DryRun: opts.Session.DryRun,
		Audit:  auditLog,
		Logger: splog,
	})
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(repo.Root())
	if err != nil {
		return nil, err
	}

	capability := github.DetectCapability(ctx)
	forge := opts.Forge
	if forge == nil && capability.Available() {
		client, err := github.NewClientForHost(ctx, settings.GitHubHost, capability.Token)
		if err != nil {
			// Without a client the session has no forge access, whatever token was found
			splog.Warn("GitHub client unavailable: %v", err)
			capability.Token = ""
			capability.TokenSource = ""
		} else {
			forge = client
		}
	}
	if forge != nil {
		forge = github.NewAuditedClient(forge, auditLog, opts.Session.DryRun)
	}

	engineOpts := engine.Options{
		Repo:       repo,
		Forge:      forge,
		Capability: capability,
		Settings:   settings,
		Session:    opts.Session,
		Logger:     splog,
		Cwd:        cwd,
	}
	if tui.CanPrompt(opts.Session.Interactive) {
		engineOpts.Confirmer = tui.PromptConfirmer{}
	}

	return &Context{
		Context:    ctx,
		Splog:      splog,
		RepoRoot:   repo.Root(),
		Repo:       repo,
		Engine:     engine.New(engineOpts),
		Forge:      forge,
		Capability: capability,
		Settings:   settings,
		Session:    opts.Session,
		Audit:      auditLog,
		Cwd:        cwd,
	}, nil
}
