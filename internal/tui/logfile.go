package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If WTF_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.wtf/logs/wtf.log
func GetLogFilePath() string {
	if customPath := os.Getenv("WTF_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "wtf.log"
	}

	return filepath.Join(homeDir, ".wtf", "logs", "wtf.log")
}

// LogFileDisabled reports whether file logging was turned off with
// WTF_LOG_FILE_DISABLED
func LogFileDisabled() bool {
	return os.Getenv("WTF_LOG_FILE_DISABLED") != ""
}
