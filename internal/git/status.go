package git

import (
	"context"
	"fmt"
	"strings"
)

// FileStatus is one entry of git status --porcelain
type FileStatus struct {
	Code string
	Path string
}

// Status returns the uncommitted changes in dir, untracked files included
func (r *Repo) Status(ctx context.Context, dir string) ([]FileStatus, error) {
	output, err := r.read(ctx, dir, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to get status of %s: %w", dir, err)
	}

	files := []FileStatus{}
	for _, line := range splitLines(output) {
		entry := strings.TrimSpace(line)
		if entry == "" {
			continue
		}
		code, path, _ := strings.Cut(entry, " ")
		files = append(files, FileStatus{Code: code, Path: strings.TrimSpace(path)})
	}
	return files, nil
}

// IsClean reports whether dir has no uncommitted or untracked changes
func (r *Repo) IsClean(ctx context.Context, dir string) (bool, error) {
	files, err := r.Status(ctx, dir)
	if err != nil {
		return false, err
	}
	return len(files) == 0, nil
}
