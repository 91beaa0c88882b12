// Package git provides low-level Git operations.
//
// It wraps git command execution and go-git and provides a Go-friendly interface for:
//   - Ref resolution, ancestry and commit ranges
//   - Working tree and worktree state
//   - Remote operations (fetch, push, ls-remote)
//   - Branch, stash and history rewriting commands
//
// Every mutating command goes through Repo.mutate so that it is recorded in
// the audit log and skipped in dry-run mode. This package should be the only
// place where direct git commands are executed.
package git
