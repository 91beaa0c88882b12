// Package config manages wtf configuration.
//
// It handles:
//   - Built-in defaults for the fork/upstream workflow
//   - The committed project file (.worktreeflow.yaml)
//   - The local repository file (.git/.wtf_config)
//   - Session flags (debug, dry-run, history) threaded through a command
package config
