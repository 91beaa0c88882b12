package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// DefaultPRBodyTemplate is the pull request body used when none is given.
// {commit_list} is replaced with one "- subject" line per commit.
const DefaultPRBodyTemplate = `## Changes

{commit_list}

## Testing

- [ ] Tests pass
- [ ] Manual testing completed`

// Settings is the resolved repository configuration handed to every component
type Settings struct {
	UpstreamRepo      string
	BaseBranch        string
	FeaturePrefix     string
	BackupPrefix      string
	WorktreeBase      string
	OriginRemote      string
	UpstreamRemote    string
	GitHubHost        string
	UseSSH            bool
	PullFFOnly        bool
	DraftPR           bool
	PRBodyTemplate    string
	ForceDeleteBranch bool
	AutoStash         bool
	CreateBackups     bool
}

// Defaults returns the built-in settings
func Defaults() Settings {
	return Settings{
		UpstreamRepo:   "humanlayer/humanlayer",
		BaseBranch:     "main",
		FeaturePrefix:  "feat/",
		BackupPrefix:   "backup/",
		WorktreeBase:   "../wt",
		OriginRemote:   "origin",
		UpstreamRemote: "upstream",
		GitHubHost:     "github.com",
		UseSSH:         true,
		PullFFOnly:     true,
		PRBodyTemplate: DefaultPRBodyTemplate,
		CreateBackups:  true,
	}
}

// Load resolves settings for repoRoot: defaults, then the project file,
// then the local file, then environment overrides.
func Load(repoRoot string) (Settings, error) {
	settings := Defaults()

	project, err := GetProjectConfig(repoRoot)
	if err != nil {
		return Settings{}, err
	}
	project.apply(&settings)

	local, err := GetRepoConfig(repoRoot)
	if err != nil {
		return Settings{}, err
	}
	local.apply(&settings)

	if v := os.Getenv("WTF_UPSTREAM_REPO"); v != "" {
		settings.UpstreamRepo = v
	}
	if v := os.Getenv("WTF_BASE_BRANCH"); v != "" {
		settings.BaseBranch = v
	}

	return settings, nil
}

// key describes one settable configuration key
type key struct {
	get func(s Settings) string
	set func(c *RepoConfig, value string) error
}

func stringKey(get func(s Settings) string, field func(c *RepoConfig) **string) key {
	return key{
		get: get,
		set: func(c *RepoConfig, value string) error {
			*field(c) = &value
			return nil
		},
	}
}

func boolKey(get func(s Settings) bool, field func(c *RepoConfig) **bool) key {
	return key{
		get: func(s Settings) string { return strconv.FormatBool(get(s)) },
		set: func(c *RepoConfig, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean value %q: %w", value, err)
			}
			*field(c) = &b
			return nil
		},
	}
}

var keys = map[string]key{
	"upstream-repo": stringKey(func(s Settings) string { return s.UpstreamRepo },
		func(c *RepoConfig) **string { return &c.UpstreamRepo }),
	"base-branch": stringKey(func(s Settings) string { return s.BaseBranch },
		func(c *RepoConfig) **string { return &c.BaseBranch }),
	"feature-prefix": stringKey(func(s Settings) string { return s.FeaturePrefix },
		func(c *RepoConfig) **string { return &c.FeaturePrefix }),
	"backup-prefix": stringKey(func(s Settings) string { return s.BackupPrefix },
		func(c *RepoConfig) **string { return &c.BackupPrefix }),
	"worktree-base": stringKey(func(s Settings) string { return s.WorktreeBase },
		func(c *RepoConfig) **string { return &c.WorktreeBase }),
	"origin-remote": stringKey(func(s Settings) string { return s.OriginRemote },
		func(c *RepoConfig) **string { return &c.OriginRemote }),
	"upstream-remote": stringKey(func(s Settings) string { return s.UpstreamRemote },
		func(c *RepoConfig) **string { return &c.UpstreamRemote }),
	"github-host": stringKey(func(s Settings) string { return s.GitHubHost },
		func(c *RepoConfig) **string { return &c.GitHubHost }),
	"pr-body-template": stringKey(func(s Settings) string { return s.PRBodyTemplate },
		func(c *RepoConfig) **string { return &c.PRBodyTemplate }),
	"use-ssh": boolKey(func(s Settings) bool { return s.UseSSH },
		func(c *RepoConfig) **bool { return &c.UseSSH }),
	"pull-ff-only": boolKey(func(s Settings) bool { return s.PullFFOnly },
		func(c *RepoConfig) **bool { return &c.PullFFOnly }),
	"draft-pr": boolKey(func(s Settings) bool { return s.DraftPR },
		func(c *RepoConfig) **bool { return &c.DraftPR }),
	"force-delete-branch": boolKey(func(s Settings) bool { return s.ForceDeleteBranch },
		func(c *RepoConfig) **bool { return &c.ForceDeleteBranch }),
	"auto-stash": boolKey(func(s Settings) bool { return s.AutoStash },
		func(c *RepoConfig) **bool { return &c.AutoStash }),
	"create-backups": boolKey(func(s Settings) bool { return s.CreateBackups },
		func(c *RepoConfig) **bool { return &c.CreateBackups }),
}

// Keys returns the configuration keys in sorted order
func Keys() []string {
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetValue returns the resolved value for a configuration key
func GetValue(repoRoot string, name string) (string, error) {
	k, ok := keys[name]
	if !ok {
		return "", fmt.Errorf("unknown configuration key: %s", name)
	}
	settings, err := Load(repoRoot)
	if err != nil {
		return "", err
	}
	return k.get(settings), nil
}

// SetValue stores a configuration key in the local config file
func SetValue(repoRoot string, name, value string) error {
	k, ok := keys[name]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s (valid keys: %s)", name, strings.Join(Keys(), ", "))
	}
	if name == "upstream-repo" && !IsOwnerRepo(value) {
		return fmt.Errorf("upstream-repo must be in 'owner/repo' format, got %q", value)
	}

	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}
	if err := k.set(config, value); err != nil {
		return err
	}

	return WriteRepoConfig(repoRoot, config)
}

// IsOwnerRepo reports whether s has the form owner/repo
func IsOwnerRepo(s string) bool {
	parts := strings.Split(s, "/")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}

// Owner returns the owner half of an owner/repo identifier
func Owner(ownerRepo string) string {
	owner, _, _ := strings.Cut(ownerRepo, "/")
	return owner
}

// RepoName returns the repo half of an owner/repo identifier
func RepoName(ownerRepo string) string {
	_, repo, _ := strings.Cut(ownerRepo, "/")
	return repo
}
