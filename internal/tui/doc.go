// Package tui provides the terminal interface for wtf.
//
// It handles:
//   - Structured logging to the console and a rotating log file (Splog)
//   - Yes/no confirmation and text prompts (using survey)
//   - Terminal styling, colors and tables (using lipgloss)
package tui
