// Package topology works out which GitHub account owns the fork and which
// repository is upstream, from remote URLs.
package topology

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"worktreeflow.dev/worktreeflow/internal/config"
	"worktreeflow.dev/worktreeflow/internal/github"
)

// Topology describes the fork relationship of the repository
type Topology struct {
	// ForkOwner is empty when it could not be determined
	ForkOwner string
	// UpstreamRepo is owner/repo
	UpstreamRepo string
	// UsesSSH reflects the origin URL scheme
	UsesSSH bool
}

// HasForkOwner reports whether the fork owner is known
func (t Topology) HasForkOwner() bool {
	return t.ForkOwner != ""
}

// HeadRef returns the owner-qualified branch used for pull requests, e.g. alice:feat/x
func (t Topology) HeadRef(branch string) string {
	return t.ForkOwner + ":" + branch
}

// UpstreamOwner returns the owner half of UpstreamRepo
func (t Topology) UpstreamOwner() string {
	return config.Owner(t.UpstreamRepo)
}

// UpstreamName returns the repo half of UpstreamRepo
func (t Topology) UpstreamName() string {
	return config.RepoName(t.UpstreamRepo)
}

// RemoteReader reads remote URLs
type RemoteReader interface {
	RemoteURL(name string) (string, bool, error)
}

// Warner receives non-fatal detection problems
type Warner interface {
	Warn(format string, args ...any)
}

// Resolver detects the topology once per process
type Resolver struct {
	remotes    RemoteReader
	forge      github.Client
	capability github.Capability
	settings   config.Settings
	warn       Warner

	once     sync.Once
	topology Topology
	err      error
}

// NewResolver creates a Resolver. forge may be nil when the capability is unavailable.
func NewResolver(remotes RemoteReader, forge github.Client, capability github.Capability, settings config.Settings, warn Warner) *Resolver {
	return &Resolver{
		remotes:    remotes,
		forge:      forge,
		capability: capability,
		settings:   settings,
		warn:       warn,
	}
}

// Detect returns the cached topology, detecting it on first use
func (r *Resolver) Detect(ctx context.Context) (Topology, error) {
	r.once.Do(func() {
		r.topology, r.err = r.detect(ctx)
	})
	return r.topology, r.err
}

func (r *Resolver) detect(ctx context.Context) (Topology, error) {
	topology := Topology{UpstreamRepo: r.settings.UpstreamRepo}
	host := regexp.QuoteMeta(r.settings.GitHubHost)

	originURL, hasOrigin, err := r.remotes.RemoteURL(r.settings.OriginRemote)
	if err != nil {
		return Topology{}, err
	}
	if hasOrigin {
		topology.UsesSSH = IsSSHURL(originURL)
		if m := regexp.MustCompile(host + `[:/]([^/]+)/`).FindStringSubmatch(originURL); m != nil {
			topology.ForkOwner = m[1]
		}
	}

	if topology.ForkOwner == "" && r.capability.Available() && r.forge != nil {
		login, err := r.forge.AuthenticatedUser(ctx)
		if err == nil && login != "" {
			topology.ForkOwner = login
		}
	}
	if topology.ForkOwner == "" && r.warn != nil {
		r.warn.Warn("Could not determine your fork owner from the %s remote", r.settings.OriginRemote)
	}

	upstreamURL, hasUpstream, err := r.remotes.RemoteURL(r.settings.UpstreamRemote)
	if err != nil {
		return Topology{}, err
	}
	if hasUpstream {
		if m := regexp.MustCompile(host + `[:/]([^/]+/[^/]+)`).FindStringSubmatch(upstreamURL); m != nil {
			topology.UpstreamRepo = strings.TrimSuffix(m[1], ".git")
		}
	}

	return topology, nil
}

// IsSSHURL reports whether url uses the scp-like or ssh:// form
func IsSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") || strings.HasPrefix(url, "ssh://")
}

// RemoteURLFor builds a clone URL for owner/repo on host
func RemoteURLFor(host, ownerRepo string, ssh bool) string {
	if ssh {
		return fmt.Sprintf("git@%s:%s.git", host, ownerRepo)
	}
	return fmt.Sprintf("https://%s/%s.git", host, ownerRepo)
}
