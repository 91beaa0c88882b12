package engine

import (
	"context"
	"fmt"
	"strings"

	"worktreeflow.dev/worktreeflow/internal/config"
	"worktreeflow.dev/worktreeflow/internal/errors"
	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/guard"
	"worktreeflow.dev/worktreeflow/internal/topology"
)

// RemoteAction is what happened to a remote
type RemoteAction string

const (
	RemoteAdded     RemoteAction = "added"
	RemoteUpdated   RemoteAction = "updated"
	RemoteRenamed   RemoteAction = "renamed"
	RemoteRemoved   RemoteAction = "removed"
	RemoteUnchanged RemoteAction = "unchanged"
)

// UpstreamOptions configures AddUpstream
type UpstreamOptions struct {
	// Repo overrides the detected upstream, as owner/repo
	Repo string
	// Update replaces an existing upstream URL that differs
	Update bool
}

// UpstreamResult reports the upstream remote after AddUpstream
type UpstreamResult struct {
	Repo    string
	URL     string
	Action  RemoteAction
	Remotes []git.Remote
}

// AddUpstream adds the upstream remote, or updates it when asked, and sets
// pull.ff=only. The URL scheme follows origin's.
func (e *engineImpl) AddUpstream(ctx context.Context, opts UpstreamOptions) (*UpstreamResult, error) {
	repo := opts.Repo
	if repo != "" {
		if !config.IsOwnerRepo(repo) {
			return nil, errors.NewValidationError("upstream repository", repo, "must be in 'owner/repo' format")
		}
	} else {
		topo, err := e.Topology(ctx)
		if err != nil {
			return nil, err
		}
		repo = topo.UpstreamRepo
	}

	ssh := e.settings.UseSSH
	if originURL, ok, err := e.repo.RemoteURL(e.settings.OriginRemote); err != nil {
		return nil, err
	} else if ok {
		ssh = !strings.HasPrefix(originURL, "https://")
	}

	name := e.settings.UpstreamRemote
	result := &UpstreamResult{Repo: repo, URL: topology.RemoteURLFor(e.settings.GitHubHost, repo, ssh)}

	existing, ok, err := e.repo.RemoteURL(name)
	if err != nil {
		return nil, err
	}
	switch {
	case !ok:
		if err := e.repo.RemoteAdd(ctx, name, result.URL); err != nil {
			return nil, err
		}
		result.Action = RemoteAdded
	case existing == result.URL:
		result.Action = RemoteUnchanged
	case opts.Update:
		if err := e.repo.RemoteSetURL(ctx, name, result.URL); err != nil {
			return nil, err
		}
		result.Action = RemoteUpdated
	default:
		return nil, errors.NewPreconditionBlockedError(guard.ConditionRemoteMismatch,
			fmt.Sprintf("Remote %s points at %s, not %s", name, existing, result.URL),
			"wtf upstream-add --update",
			fmt.Sprintf("git remote set-url %s %s", name, result.URL))
	}

	if e.settings.PullFFOnly {
		if err := e.repo.ConfigSet(ctx, "pull.ff", "only"); err != nil {
			e.log.Warn("Could not set pull.ff: %v", err)
		}
	}

	result.Remotes, err = e.repo.Remotes()
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ForkResult reports the fork and remote layout after SetupFork
type ForkResult struct {
	User        string
	Fork        string
	ForkCreated bool
	// Actions maps remote names to what happened to them
	Actions map[string]RemoteAction
	Remotes []git.Remote
}

// SetupFork makes sure the authenticated user has a fork of upstream and
// that origin points at it while upstream points at the original.
func (e *engineImpl) SetupFork(ctx context.Context) (*ForkResult, error) {
	if err := e.capability.Require(); err != nil {
		return nil, err
	}
	topo, err := e.Topology(ctx)
	if err != nil {
		return nil, err
	}

	user, err := e.forge.AuthenticatedUser(ctx)
	if err != nil {
		return nil, errors.NewEnvironmentMissingError("GitHub authentication", "gh auth login")
	}
	repoName := topo.UpstreamName()
	result := &ForkResult{
		User:    user,
		Fork:    user + "/" + repoName,
		Actions: map[string]RemoteAction{},
	}

	fork, err := e.forge.GetRepository(ctx, user, repoName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", result.Fork, err)
	}
	if fork == nil {
		e.log.Info("Creating fork of %s...", topo.UpstreamRepo)
		if _, err := e.forge.CreateFork(ctx, topo.UpstreamOwner(), repoName); err != nil {
			return nil, fmt.Errorf("failed to fork %s: %w", topo.UpstreamRepo, err)
		}
		result.ForkCreated = true
	}

	origin, upstream := e.settings.OriginRemote, e.settings.UpstreamRemote
	originURL, hasOrigin, err := e.repo.RemoteURL(origin)
	if err != nil {
		return nil, err
	}
	_, hasUpstream, err := e.repo.RemoteURL(upstream)
	if err != nil {
		return nil, err
	}

	if hasOrigin && strings.Contains(originURL, topo.UpstreamRepo) {
		if !hasUpstream {
			if err := e.repo.RemoteRename(ctx, origin, upstream); err != nil {
				return nil, err
			}
			result.Actions[upstream] = RemoteRenamed
			hasUpstream = true
		} else {
			if err := e.repo.RemoteRemove(ctx, origin); err != nil {
				return nil, err
			}
			result.Actions[origin] = RemoteRemoved
		}
		hasOrigin = false
	}

	forkURL := topology.RemoteURLFor(e.settings.GitHubHost, result.Fork, e.settings.UseSSH)
	switch {
	case !hasOrigin:
		if err := e.repo.RemoteAdd(ctx, origin, forkURL); err != nil {
			return nil, err
		}
		result.Actions[origin] = RemoteAdded
	case !strings.Contains(originURL, user+"/"):
		if err := e.repo.RemoteSetURL(ctx, origin, forkURL); err != nil {
			return nil, err
		}
		result.Actions[origin] = RemoteUpdated
	default:
		result.Actions[origin] = RemoteUnchanged
	}

	if !hasUpstream {
		upstreamURL := topology.RemoteURLFor(e.settings.GitHubHost, topo.UpstreamRepo, e.settings.UseSSH)
		if err := e.repo.RemoteAdd(ctx, upstream, upstreamURL); err != nil {
			return nil, err
		}
		result.Actions[upstream] = RemoteAdded
	}

	result.Remotes, err = e.repo.Remotes()
	if err != nil {
		return nil, err
	}
	return result, nil
}
