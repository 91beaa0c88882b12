package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// OpenEditor opens the user's preferred editor on initialContent and
// returns what was saved. Used to edit pull request bodies.
func OpenEditor(initialContent, filenamePattern string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp("", filenamePattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	if _, err := tmpFile.WriteString(initialContent); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	cmd := exec.Command("sh", "-c", fmt.Sprintf("%s %s", Editor(), tmpFile.Name()))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error: %w", err)
	}

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}

	return string(content), nil
}

// Editor returns the command used to edit text: GIT_EDITOR, EDITOR,
// core.editor, then vi
func Editor() string {
	for _, name := range []string{"GIT_EDITOR", "EDITOR"} {
		if editor := os.Getenv(name); editor != "" {
			return editor
		}
	}
	output, err := exec.Command("git", "config", "--get", "core.editor").Output()
	if err == nil {
		if editor := strings.TrimSpace(string(output)); editor != "" {
			return editor
		}
	}
	return "vi"
}
