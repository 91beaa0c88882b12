package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// ErrInteractiveDisabled is returned when prompts cannot be shown
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled")

// checkInteractiveAllowed returns an error if prompts are turned off with
// WTF_NON_INTERACTIVE or there is no terminal to prompt on
func checkInteractiveAllowed() error {
	if os.Getenv("WTF_NON_INTERACTIVE") != "" {
		return fmt.Errorf("%w (WTF_NON_INTERACTIVE is set)", ErrInteractiveDisabled)
	}
	if !IsTTY() {
		return fmt.Errorf("%w (not a terminal)", ErrInteractiveDisabled)
	}
	return nil
}

// IsTTY returns true if stdin and stdout are terminals we can prompt on
func IsTTY() bool {
	if !((isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))) {
		return false
	}
	// Also try to open /dev/tty to verify it's actually available
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// PromptConfirm asks a yes/no question. Ctrl+C answers no.
func PromptConfirm(message string, defaultValue bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}

	answer := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, nil
		}
		return false, err
	}
	return answer, nil
}

// PromptConfirmer answers destructive-operation confirmations with a
// terminal prompt
type PromptConfirmer struct {
	// Ask is the prompt used, PromptConfirm when nil
	Ask func(message string, defaultValue bool) (bool, error)
}

// Confirm asks message and defaults to no
func (c PromptConfirmer) Confirm(_ context.Context, message string) (bool, error) {
	ask := c.Ask
	if ask == nil {
		ask = PromptConfirm
	}
	ok, err := ask(message, false)
	if errors.Is(err, ErrInteractiveDisabled) {
		return false, nil
	}
	return ok, err
}

// CanPrompt reports whether a session asked to be interactive can
// actually show prompts
func CanPrompt(interactive bool) bool {
	return interactive && checkInteractiveAllowed() == nil
}
