package actions

import (
	"fmt"

	"worktreeflow.dev/worktreeflow/internal/config"
	"worktreeflow.dev/worktreeflow/internal/tui"
)

// ConfigGetAction prints the resolved value of one configuration key
func ConfigGetAction(splog *tui.Splog, repoRoot, key string) error {
	value, err := config.GetValue(repoRoot, key)
	if err != nil {
		return err
	}
	splog.Info("%s", value)
	return nil
}

// ConfigSetAction stores a configuration key in the repository's local config
func ConfigSetAction(splog *tui.Splog, repoRoot, key, value string) error {
	if err := config.SetValue(repoRoot, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	splog.Info("Set %s to: %s", key, value)
	return nil
}

// ConfigListAction prints every configuration key with its resolved value
func ConfigListAction(splog *tui.Splog, repoRoot string) error {
	pairs := make([][2]string, 0, len(config.Keys()))
	for _, key := range config.Keys() {
		value, err := config.GetValue(repoRoot, key)
		if err != nil {
			return err
		}
		pairs = append(pairs, [2]string{key, value})
	}
	splog.Page(tui.RenderKeyValues(pairs))
	return nil
}
