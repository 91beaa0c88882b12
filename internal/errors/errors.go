// Package errors provides sentinel errors and custom error types for the wtf application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the error taxonomy
var (
	// ErrValidation indicates a bad slug or branch name
	ErrValidation = errors.New("validation failed")

	// ErrPreconditionBlocked indicates a safety gate refused to let an operation proceed
	ErrPreconditionBlocked = errors.New("precondition blocked")

	// ErrConflictDuringRewrite indicates a rebase or merge stopped on conflicts
	ErrConflictDuringRewrite = errors.New("conflict during rewrite")

	// ErrRemoteOperationFailed indicates a fetch or push failed
	ErrRemoteOperationFailed = errors.New("remote operation failed")

	// ErrEnvironmentMissing indicates a required external tool or credential is missing
	ErrEnvironmentMissing = errors.New("environment missing")

	// ErrUnresolvableRef indicates that a ref could not be resolved to a commit
	ErrUnresolvableRef = errors.New("unresolvable ref")
)

// ValidationError represents a user input that violates a naming rule
type ValidationError struct {
	Field string
	Value string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Rule)
}

// Is returns true if the target error is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, value, rule string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Rule: rule}
}

// PreconditionBlockedError is returned when a safety gate blocks an operation.
// No mutation has happened when this error is returned.
type PreconditionBlockedError struct {
	Condition string
	Message   string
	// Details are informational lines such as commits that would be lost
	Details []string
	// Remedies are exact commands the user can run to resolve the block
	Remedies []string
}

func (e *PreconditionBlockedError) Error() string {
	return e.Message
}

// Is returns true if the target error is ErrPreconditionBlocked
func (e *PreconditionBlockedError) Is(target error) bool {
	return target == ErrPreconditionBlocked
}

// NewPreconditionBlockedError creates a new PreconditionBlockedError
func NewPreconditionBlockedError(condition, message string, remedies ...string) *PreconditionBlockedError {
	return &PreconditionBlockedError{
		Condition: condition,
		Message:   message,
		Remedies:  remedies,
	}
}

// WithDetails attaches informational lines to the error
func (e *PreconditionBlockedError) WithDetails(details ...string) *PreconditionBlockedError {
	e.Details = append(e.Details, details...)
	return e
}

// ConflictError represents a rebase or merge that stopped on conflicts.
// The working tree is left as git left it.
type ConflictError struct {
	BranchName string
	Operation  string
	Err        error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict on branch %s", e.Operation, e.BranchName)
}

// Is returns true if the target error is ErrConflictDuringRewrite
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflictDuringRewrite
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// NewConflictError creates a new ConflictError
func NewConflictError(branchName, operation string, err error) *ConflictError {
	return &ConflictError{BranchName: branchName, Operation: operation, Err: err}
}

// Remedies returns the commands that continue or abort the rewrite
func (e *ConflictError) Remedies() []string {
	return []string{
		"git add <resolved-files>",
		fmt.Sprintf("git %s --continue", e.Operation),
		fmt.Sprintf("git %s --abort", e.Operation),
	}
}

// RemoteOperationError represents a failed fetch or push
type RemoteOperationError struct {
	Operation string
	Remote    string
	Ref       string
	// Fallbacks are non-destructive commands the user can try instead.
	// They never escalate to an unconditional force push.
	Fallbacks []string
	Err       error
}

func (e *RemoteOperationError) Error() string {
	target := e.Remote
	if e.Ref != "" {
		target = e.Remote + "/" + e.Ref
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Operation, target, e.Err)
	}
	return fmt.Sprintf("%s %s failed", e.Operation, target)
}

// Is returns true if the target error is ErrRemoteOperationFailed
func (e *RemoteOperationError) Is(target error) bool {
	return target == ErrRemoteOperationFailed
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}

// NewRemoteOperationError creates a new RemoteOperationError
func NewRemoteOperationError(operation, remote, ref string, err error, fallbacks ...string) *RemoteOperationError {
	return &RemoteOperationError{
		Operation: operation,
		Remote:    remote,
		Ref:       ref,
		Fallbacks: fallbacks,
		Err:       err,
	}
}

// WithFallback replaces the fallback commands of the RemoteOperationError
// inside err. Other errors are returned unchanged.
func WithFallback(err error, fallbacks ...string) error {
	var remote *RemoteOperationError
	if errors.As(err, &remote) {
		remote.Fallbacks = fallbacks
	}
	return err
}

// EnvironmentMissingError represents a missing tool or credential
type EnvironmentMissingError struct {
	Tool   string
	Remedy string
}

func (e *EnvironmentMissingError) Error() string {
	return fmt.Sprintf("%s is not available", e.Tool)
}

// Is returns true if the target error is ErrEnvironmentMissing
func (e *EnvironmentMissingError) Is(target error) bool {
	return target == ErrEnvironmentMissing
}

// NewEnvironmentMissingError creates a new EnvironmentMissingError
func NewEnvironmentMissingError(tool, remedy string) *EnvironmentMissingError {
	return &EnvironmentMissingError{Tool: tool, Remedy: remedy}
}

// UnresolvableRefError represents a ref that does not resolve to a commit
type UnresolvableRefError struct {
	Ref string
	Err error
}

func (e *UnresolvableRefError) Error() string {
	return fmt.Sprintf("cannot resolve ref %s", e.Ref)
}

// Is returns true if the target error is ErrUnresolvableRef
func (e *UnresolvableRefError) Is(target error) bool {
	return target == ErrUnresolvableRef
}

func (e *UnresolvableRefError) Unwrap() error {
	return e.Err
}

// NewUnresolvableRefError creates a new UnresolvableRefError
func NewUnresolvableRefError(ref string, err error) *UnresolvableRefError {
	return &UnresolvableRefError{Ref: ref, Err: err}
}

// BackupError annotates a failure that happened after a backup branch was created
type BackupError struct {
	Backup string
	Err    error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("%v (backup branch: %s)", e.Err, e.Backup)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}

// WithBackup wraps err so the backup branch name travels with it.
// It returns err unchanged if err is nil or backup is empty.
func WithBackup(err error, backup string) error {
	if err == nil || backup == "" {
		return err
	}
	return &BackupError{Backup: backup, Err: err}
}

// BackupOf returns the backup branch recorded on err, if any
func BackupOf(err error) string {
	var be *BackupError
	if errors.As(err, &be) {
		return be.Backup
	}
	return ""
}

// RemediesOf collects the suggested commands carried by err
func RemediesOf(err error) []string {
	var blocked *PreconditionBlockedError
	if errors.As(err, &blocked) {
		return blocked.Remedies
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Remedies()
	}
	var remote *RemoteOperationError
	if errors.As(err, &remote) && len(remote.Fallbacks) > 0 {
		return remote.Fallbacks
	}
	var env *EnvironmentMissingError
	if errors.As(err, &env) && env.Remedy != "" {
		return []string{env.Remedy}
	}
	return nil
}

// DetailsOf returns informational lines carried by err
func DetailsOf(err error) []string {
	var blocked *PreconditionBlockedError
	if errors.As(err, &blocked) {
		return blocked.Details
	}
	return nil
}

// ExitCode maps an error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("%s command failed: %s %s", e.Command, e.Command, strings.Join(e.Args, " "))
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", strings.TrimSpace(e.Stderr))
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", strings.TrimSpace(e.Stdout))
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// Output returns the combined stdout and stderr of a failed command, if err carries one
func Output(err error) string {
	var gce *GitCommandError
	if errors.As(err, &gce) {
		return gce.Stdout + gce.Stderr
	}
	return ""
}
