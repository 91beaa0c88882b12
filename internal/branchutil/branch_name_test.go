package branchutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"worktreeflow.dev/worktreeflow/internal/errors"
)

func TestValidateSlug(t *testing.T) {
	t.Parallel()

	t.Run("rejects whitespace and reserved characters", func(t *testing.T) {
		t.Parallel()
		bad := []string{
			"has space", "tab\there", "new\nline",
			"a~b", "a^b", "a:b", "a?b", "a*b", "a[b", "a]b", `a\b`,
		}
		for _, input := range bad {
			_, err := ValidateSlug(input)
			require.Error(t, err, "input %q", input)
			require.ErrorIs(t, err, errors.ErrValidation)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{"", "   ", "\t"} {
			_, err := ValidateSlug(input)
			require.ErrorIs(t, err, errors.ErrValidation)
			require.Contains(t, err.Error(), "is required")
		}
	})

	t.Run("accepts and trims other strings", func(t *testing.T) {
		t.Parallel()
		good := map[string]string{
			"issue-42":       "issue-42",
			"  issue-42  ":   "issue-42",
			"team/login-fix": "team/login-fix",
			"v1.2":           "v1.2",
			"under_score":    "under_score",
		}
		for input, expected := range good {
			slug, err := ValidateSlug(input)
			require.NoError(t, err, "input %q", input)
			require.Equal(t, expected, slug.String())
			require.Equal(t, "feat/"+expected, slug.Branch("feat/"))
		}
	})

	t.Run("error names the violated rule", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateSlug("a b")
		require.Contains(t, err.Error(), "whitespace")

		_, err = ValidateSlug("a:b")
		require.Contains(t, err.Error(), "must not contain any of")
	})
}

func TestValidateBranchName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		rule  string
	}{
		{"empty", "", "must not be empty"},
		{"head", "HEAD", "must not be HEAD"},
		{"control character", "feat/a\x01b", "control characters"},
		{"space", "feat/a b", "must not contain spaces"},
		{"tilde", "feat~1", "must not contain spaces"},
		{"consecutive dots", "feat/a..b", "consecutive dots"},
		{"leading slash", "/feat", "start or end with a slash"},
		{"trailing slash", "feat/", "start or end with a slash"},
		{"lock suffix", "feat/a.lock", ".lock"},
		{"reflog sequence", "feat@{1}", "@{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateBranchName(tt.input)
			require.ErrorIs(t, err, errors.ErrValidation)
			require.Contains(t, err.Error(), tt.rule)
		})
	}

	for _, name := range []string{"main", "feat/issue-42", "backup/feat/x-20240101-120000", "release/v1.2"} {
		require.NoError(t, ValidateBranchName(name), name)
	}
}

func TestWorktreePath(t *testing.T) {
	t.Parallel()

	root := filepath.Join("/home", "dev", "code", "myrepo")

	t.Run("relative base sits next to the repository", func(t *testing.T) {
		t.Parallel()
		slug := FeatureSlug("issue-42")
		require.Equal(t,
			filepath.Join("/home", "dev", "code", "wt", "myrepo", "issue-42"),
			slug.WorktreePath(root, "../wt"))
	})

	t.Run("absolute base is used as is", func(t *testing.T) {
		t.Parallel()
		slug := FeatureSlug("issue-42")
		require.Equal(t,
			filepath.Join("/tmp", "trees", "myrepo", "issue-42"),
			slug.WorktreePath(root, "/tmp/trees"))
	})
}

func TestParseFeature(t *testing.T) {
	t.Parallel()

	slug, branch, err := ParseFeature(" issue-42 ", "feat/")
	require.NoError(t, err)
	require.Equal(t, FeatureSlug("issue-42"), slug)
	require.Equal(t, "feat/issue-42", branch)

	_, _, err = ParseFeature("a..b", "feat/")
	require.ErrorIs(t, err, errors.ErrValidation)
	require.Contains(t, err.Error(), "consecutive dots")
}
