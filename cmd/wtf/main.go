package main

import (
	"fmt"
	"os"

	"worktreeflow.dev/worktreeflow/internal/cli"
	"worktreeflow.dev/worktreeflow/internal/cli/common"
	"worktreeflow.dev/worktreeflow/internal/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		// Command errors are printed with their remedies by the command itself
		if !common.Reported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(errors.ExitCode(err))
	}
}
