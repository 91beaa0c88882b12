// Package engine carries features through their lifecycle.
//
// It is the core of wtf, responsible for:
//   - Synchronizing the fork's base branch with upstream (fast-forward,
//     forced, or without a checkout)
//   - Creating, publishing and updating per-feature worktrees
//   - Opening pull requests against upstream
//   - Cleaning up a feature's worktree and branches
//
// Every mutating step passes through the guard package first and every
// command it runs is recorded in the session's audit log.
package engine
