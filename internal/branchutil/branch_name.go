// Package branchutil validates feature slugs and branch names and derives
// the branch and worktree path that belong to a feature.
package branchutil

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"worktreeflow.dev/worktreeflow/internal/errors"
)

var (
	// branchNameInvalidChars matches characters git refuses in ref names
	branchNameInvalidChars = regexp.MustCompile(`[\s~^:?*\[]`)

	// slugInvalidChars matches characters reserved in slugs
	slugInvalidChars = regexp.MustCompile(`[~^:?*\[\]\\]`)

	whitespace = regexp.MustCompile(`\s`)
)

// ValidateBranchName checks name against git's ref-format rules that matter
// for branches created by this tool.
func ValidateBranchName(name string) error {
	if name == "" {
		return errors.NewValidationError("branch name", name, "must not be empty")
	}
	if name == "HEAD" {
		return errors.NewValidationError("branch name", name, "must not be HEAD")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return errors.NewValidationError("branch name", name, "must not contain control characters")
		}
	}
	if branchNameInvalidChars.MatchString(name) {
		return errors.NewValidationError("branch name", name, "must not contain spaces, ~, ^, :, ?, * or [")
	}
	if strings.Contains(name, "..") {
		return errors.NewValidationError("branch name", name, "must not contain two consecutive dots (..)")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return errors.NewValidationError("branch name", name, "must not start or end with a slash")
	}
	if strings.HasSuffix(name, ".lock") {
		return errors.NewValidationError("branch name", name, "must not end with .lock")
	}
	if strings.Contains(name, "@{") {
		return errors.NewValidationError("branch name", name, "must not contain the sequence @{")
	}
	return nil
}

// FeatureSlug is a validated, trimmed feature identifier
type FeatureSlug string

// ValidateSlug trims raw and checks it is usable as a feature slug
func ValidateSlug(raw string) (FeatureSlug, error) {
	slug := strings.TrimSpace(raw)
	if slug == "" {
		return "", errors.NewValidationError("slug", raw, "is required")
	}
	if whitespace.MatchString(slug) {
		return "", errors.NewValidationError("slug", slug, "must not contain whitespace")
	}
	if slugInvalidChars.MatchString(slug) {
		return "", errors.NewValidationError("slug", slug, `must not contain any of ~ ^ : ? * [ ] \`)
	}
	return FeatureSlug(slug), nil
}

// String returns the slug text
func (s FeatureSlug) String() string {
	return string(s)
}

// Branch returns the feature branch for the slug, e.g. feat/issue-42
func (s FeatureSlug) Branch(prefix string) string {
	return prefix + string(s)
}

// WorktreePath returns the worktree directory for the slug.
// base is resolved against repoRoot unless it is absolute; the repository
// name is inserted so that several repositories can share one base.
func (s FeatureSlug) WorktreePath(repoRoot, base string) string {
	repoName := filepath.Base(repoRoot)
	if filepath.IsAbs(base) {
		return filepath.Join(base, repoName, string(s))
	}
	return filepath.Join(repoRoot, base, repoName, string(s))
}

// ParseFeature validates raw as a slug and the derived branch as a branch name
func ParseFeature(raw, prefix string) (FeatureSlug, string, error) {
	slug, err := ValidateSlug(raw)
	if err != nil {
		return "", "", err
	}
	branch := slug.Branch(prefix)
	if err := ValidateBranchName(branch); err != nil {
		return "", "", err
	}
	return slug, branch, nil
}
