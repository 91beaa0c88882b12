package cli_test

import (
	"testing"

	"worktreeflow.dev/worktreeflow/testhelpers"
)

func TestMain(m *testing.M) {
	testhelpers.TestMain(m, nil)
}
