package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	// LocalConfigFile is the per-clone config, stored inside .git
	LocalConfigFile = ".wtf_config"

	// ProjectConfigFile is the committed, team-shared config at the repo root
	ProjectConfigFile = ".worktreeflow.yaml"
)

// RepoConfig represents one layer of repository configuration.
// Unset fields fall through to the layer below.
type RepoConfig struct {
	UpstreamRepo      *string `json:"upstreamRepo,omitempty" yaml:"upstreamRepo,omitempty"`
	BaseBranch        *string `json:"baseBranch,omitempty" yaml:"baseBranch,omitempty"`
	FeaturePrefix     *string `json:"featurePrefix,omitempty" yaml:"featurePrefix,omitempty"`
	BackupPrefix      *string `json:"backupPrefix,omitempty" yaml:"backupPrefix,omitempty"`
	WorktreeBase      *string `json:"worktreeBase,omitempty" yaml:"worktreeBase,omitempty"`
	OriginRemote      *string `json:"originRemote,omitempty" yaml:"originRemote,omitempty"`
	UpstreamRemote    *string `json:"upstreamRemote,omitempty" yaml:"upstreamRemote,omitempty"`
	GitHubHost        *string `json:"githubHost,omitempty" yaml:"githubHost,omitempty"`
	UseSSH            *bool   `json:"useSSH,omitempty" yaml:"useSSH,omitempty"`
	PullFFOnly        *bool   `json:"pullFFOnly,omitempty" yaml:"pullFFOnly,omitempty"`
	DraftPR           *bool   `json:"draftPR,omitempty" yaml:"draftPR,omitempty"`
	PRBodyTemplate    *string `json:"prBodyTemplate,omitempty" yaml:"prBodyTemplate,omitempty"`
	ForceDeleteBranch *bool   `json:"forceDeleteBranch,omitempty" yaml:"forceDeleteBranch,omitempty"`
	AutoStash         *bool   `json:"autoStash,omitempty" yaml:"autoStash,omitempty"`
	CreateBackups     *bool   `json:"createBackups,omitempty" yaml:"createBackups,omitempty"`
}

// localConfigPath returns the path of the local config file
func localConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", LocalConfigFile)
}

// GetRepoConfig reads the local repository configuration.
// The file may contain // and /* */ comments and trailing commas.
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(localConfigPath(repoRoot))
	if err != nil {
		// Config doesn't exist - return empty layer
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", LocalConfigFile, err)
	}

	return &config, nil
}

// WriteRepoConfig persists the local repository configuration
func WriteRepoConfig(repoRoot string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(localConfigPath(repoRoot), configJSON, 0600)
}

// GetProjectConfig reads the committed project configuration, if present
func GetProjectConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(filepath.Join(repoRoot, ProjectConfigFile))
	if err != nil {
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectConfigFile, err)
	}

	return &config, nil
}

// apply copies every set field of layer onto s
func (layer *RepoConfig) apply(s *Settings) {
	setString(&s.UpstreamRepo, layer.UpstreamRepo)
	setString(&s.BaseBranch, layer.BaseBranch)
	setString(&s.FeaturePrefix, layer.FeaturePrefix)
	setString(&s.BackupPrefix, layer.BackupPrefix)
	setString(&s.WorktreeBase, layer.WorktreeBase)
	setString(&s.OriginRemote, layer.OriginRemote)
	setString(&s.UpstreamRemote, layer.UpstreamRemote)
	setString(&s.GitHubHost, layer.GitHubHost)
	setString(&s.PRBodyTemplate, layer.PRBodyTemplate)
	setBool(&s.UseSSH, layer.UseSSH)
	setBool(&s.PullFFOnly, layer.PullFFOnly)
	setBool(&s.DraftPR, layer.DraftPR)
	setBool(&s.ForceDeleteBranch, layer.ForceDeleteBranch)
	setBool(&s.AutoStash, layer.AutoStash)
	setBool(&s.CreateBackups, layer.CreateBackups)
}

func setString(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
