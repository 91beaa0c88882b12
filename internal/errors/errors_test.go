package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaxonomyMatchesSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", NewValidationError("slug", "a b", "contains whitespace"), ErrValidation},
		{"blocked", NewPreconditionBlockedError("dirty", "uncommitted changes"), ErrPreconditionBlocked},
		{"conflict", NewConflictError("feat/x", "rebase", nil), ErrConflictDuringRewrite},
		{"remote", NewRemoteOperationError("push", "origin", "main", nil), ErrRemoteOperationFailed},
		{"environment", NewEnvironmentMissingError("gh", "install gh"), ErrEnvironmentMissing},
		{"unresolvable", NewUnresolvableRefError("upstream/main", nil), ErrUnresolvableRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := fmt.Errorf("outer: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.sentinel)
			require.Equal(t, 1, ExitCode(wrapped))
		})
	}

	require.Equal(t, 0, ExitCode(nil))
}

func TestWithBackup(t *testing.T) {
	t.Parallel()

	t.Run("nil error stays nil", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, WithBackup(nil, "backup/main-20240101-000000"))
	})

	t.Run("backup name travels with the error", func(t *testing.T) {
		t.Parallel()
		base := NewConflictError("feat/x", "rebase", errors.New("exit status 1"))
		err := fmt.Errorf("update failed: %w", WithBackup(base, "backup/feat/x-20240101-000000"))

		require.Equal(t, "backup/feat/x-20240101-000000", BackupOf(err))
		require.ErrorIs(t, err, ErrConflictDuringRewrite)
		require.Contains(t, err.Error(), "backup/feat/x-20240101-000000")
	})

	t.Run("no backup when empty", func(t *testing.T) {
		t.Parallel()
		err := WithBackup(errors.New("boom"), "")
		require.Empty(t, BackupOf(err))
	})
}

func TestRemediesOf(t *testing.T) {
	t.Parallel()

	blocked := NewPreconditionBlockedError("diverged", "main has diverged", "wtf sync-main-force --confirm")
	require.Equal(t, []string{"wtf sync-main-force --confirm"}, RemediesOf(blocked))

	conflict := NewConflictError("feat/x", "merge", nil)
	require.Contains(t, RemediesOf(conflict), "git merge --continue")

	remote := NewRemoteOperationError("push", "origin", "main", nil, "wtf sync-main")
	require.Equal(t, []string{"wtf sync-main"}, RemediesOf(remote))

	wrapped := WithBackup(WithFallback(fmt.Errorf("sync: %w", remote), "git fetch origin", "wtf sync-main-force --confirm"), "backup/main-1")
	require.Equal(t, []string{"git fetch origin", "wtf sync-main-force --confirm"}, RemediesOf(wrapped))
	require.Equal(t, "backup/main-1", BackupOf(wrapped))

	plain := errors.New("plain")
	require.Equal(t, plain, WithFallback(plain, "git fetch origin"))

	require.Nil(t, RemediesOf(errors.New("plain")))
}

func TestGitCommandError(t *testing.T) {
	t.Parallel()

	inner := errors.New("exit status 128")
	err := NewGitCommandError("git", []string{"rev-parse", "nope"}, "", "fatal: bad revision", inner)

	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "git rev-parse nope")
	require.Contains(t, err.Error(), "fatal: bad revision")
	require.Equal(t, "fatal: bad revision", Output(fmt.Errorf("wrapped: %w", err)))
}
