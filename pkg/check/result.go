package check

// Status represents the outcome of a check.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN" // passed with warnings
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP" // nothing verified, informational only
)

// Level tags a single output line of a check.
type Level string

const (
	LevelInfo Level = "INFO"
	LevelPass Level = "PASS"
	LevelWarn Level = "WARN"
	LevelFail Level = "FAIL"
)

// Line is one human-readable line printed under a check.
type Line struct {
	Level Level
	Text  string
}

// Metadata keys a check may set for the summary.
const (
	MetaRuntimeVersion = "runtime_version"
	MetaLibraryVersion = "library_version"
)

// Result holds the outcome of a single check.
type Result struct {
	Name     string            // e.g., "Runtime Version", "Credential File"
	Status   Status            // PASS, WARN, FAIL or SKIP
	Lines    []Line            // lines in the order they were produced
	Errors   []string          // fatal findings, shown in the summary
	Warnings []string          // non-fatal findings, shown in the summary
	Metadata map[string]string // discovered facts such as versions
	Err      error             // underlying error for failures
}

// OK returns true if the check counts as passed.
func (r Result) OK() bool {
	return r.Status != StatusFail
}
