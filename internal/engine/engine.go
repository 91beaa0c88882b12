package engine

import (
	"context"

	"worktreeflow.dev/worktreeflow/internal/config"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/github"
	"worktreeflow.dev/worktreeflow/internal/guard"
	"worktreeflow.dev/worktreeflow/internal/inspect"
	"worktreeflow.dev/worktreeflow/internal/topology"
)

// SyncManager keeps the fork's base branch in line with upstream
type SyncManager interface {
	SyncMain(ctx context.Context, opts SyncOptions) (*SyncResult, error)
	ForceSync(ctx context.Context, opts ForceSyncOptions) (*SyncResult, error)
	ZeroCheckoutSync(ctx context.Context, opts SyncOptions) (*SyncResult, error)
}

// WorktreeManager drives a feature from creation to cleanup
type WorktreeManager interface {
	CreateWorktree(ctx context.Context, opts CreateOptions) (*CreateResult, error)
	PublishWorktree(ctx context.Context, opts PublishOptions) (*PublishResult, error)
	CreatePullRequest(ctx context.Context, opts PROptions) (*PRResult, error)
	UpdateWorktree(ctx context.Context, opts UpdateOptions) (*UpdateResult, error)
	CleanWorktree(ctx context.Context, opts CleanOptions) (*CleanResult, error)
	WorktreeStatus(ctx context.Context, opts StatusOptions) (*StatusReport, error)
	ListWorktrees(ctx context.Context) ([]git.Worktree, error)
}

// RemoteManager configures the fork and upstream remotes
type RemoteManager interface {
	AddUpstream(ctx context.Context, opts UpstreamOptions) (*UpstreamResult, error)
	SetupFork(ctx context.Context) (*ForkResult, error)
}

// Engine is everything the command actions need
type Engine interface {
	SyncManager
	WorktreeManager
	RemoteManager

	Topology(ctx context.Context) (topology.Topology, error)
	Inspector() *inspect.Inspector
	Settings() config.Settings
}

// Logger receives progress messages
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// Options wires an engine to its collaborators
type Options struct {
	Repo       *git.Repo
	Forge      github.Client
	Capability github.Capability
	Settings   config.Settings
	Session    config.Session
	// Confirmer answers destructive-operation prompts. Nil means confirmation
	// must come from flags.
	Confirmer guard.Confirmer
	Logger    Logger
	// Cwd is the directory the command was started from
	Cwd string
}

type engineImpl struct {
	repo       *git.Repo
	forge      github.Client
	capability github.Capability
	settings   config.Settings
	session    config.Session
	inspector  *inspect.Inspector
	guard      *guard.Guard
	resolver   *topology.Resolver
	log        Logger
	cwd        string
}

// New creates an engine
func New(opts Options) Engine {
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}
	inspector := inspect.New(opts.Repo, opts.Forge, opts.Capability)
	cwd := opts.Cwd
	if cwd == "" {
		cwd = opts.Repo.Root()
	}

	return &engineImpl{
		repo:       opts.Repo,
		forge:      opts.Forge,
		capability: opts.Capability,
		settings:   opts.Settings,
		session:    opts.Session,
		inspector:  inspector,
		guard:      guard.New(opts.Repo, inspector, opts.Settings.BackupPrefix, opts.Confirmer),
		resolver:   topology.NewResolver(opts.Repo, opts.Forge, opts.Capability, opts.Settings, log),
		log:        log,
		cwd:        cwd,
	}
}

func (e *engineImpl) Topology(ctx context.Context) (topology.Topology, error) {
	return e.resolver.Detect(ctx)
}

func (e *engineImpl) Inspector() *inspect.Inspector {
	return e.inspector
}

func (e *engineImpl) Settings() config.Settings {
	return e.settings
}

// Guard exposes the safety gates, mostly so tests can pin the backup clock
func (e *engineImpl) Guard() *guard.Guard {
	return e.guard
}

// base returns the base branch for an operation
func (e *engineImpl) base(override string) string {
	if override != "" {
		return override
	}
	return e.settings.BaseBranch
}

func (e *engineImpl) upstreamRef(base string) string {
	return git.RemoteRef(e.settings.UpstreamRemote, base)
}

func (e *engineImpl) originRef(branch string) string {
	return git.RemoteRef(e.settings.OriginRemote, branch)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
