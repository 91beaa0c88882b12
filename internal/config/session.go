package config

// DefaultHistoryFile is where --save-history writes the audit log
const DefaultHistoryFile = ".wtf_history.json"

// Session holds the per-invocation flags. It is created once by the CLI and
// passed explicitly to every component that needs it.
type Session struct {
	Debug       bool
	DryRun      bool
	SaveHistory bool
	HistoryFile string
	// Interactive allows confirmation prompts on a terminal instead of
	// requiring confirmation flags up front.
	Interactive bool
}

// HistoryPath returns the file the audit log is written to
func (s Session) HistoryPath() string {
	if s.HistoryFile != "" {
		return s.HistoryFile
	}
	return DefaultHistoryFile
}
