// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a wtf command (wt-new, wt-update, sync-main, etc.)
// and turns engine results into user-facing output.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Engine, Splog, and other dependencies
//   - Actions are stateless - every fact is re-read from git and the forge on each run
//   - Actions report through the tui package; the engine does the work
//
// Dependencies:
//   - engine: sync and worktree lifecycle operations
//   - git: remote and worktree listings
//   - tui: output, tables and colors
package actions
