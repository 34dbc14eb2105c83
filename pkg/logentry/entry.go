// Package logentry defines the canonical log entry and builds it from raw
// text or from a captured call stack.
package logentry

import "github.com/ccollicutt/logsieve/pkg/stacktrace"

// LogEntry is one normalized log record.
//
// Identity is Message, StackText and Severity; ExtraInfo and Frames are
// presentation detail and do not take part in Equal or DedupKey.
type LogEntry struct {
	Message   string             `json:"message"`
	ExtraInfo string             `json:"extra_info,omitempty"`
	Severity  Severity           `json:"severity"`
	StackText string             `json:"stack_text,omitempty"`
	Frames    []stacktrace.Frame `json:"frames,omitempty"`
}

// Equal reports whether two entries have the same message, stack text and severity.
func (e LogEntry) Equal(other LogEntry) bool {
	return e.Message == other.Message &&
		e.StackText == other.StackText &&
		e.Severity == other.Severity
}

// DedupKey is the plain concatenation used to collapse identical entries.
func (e LogEntry) DedupKey() string {
	return e.Message + e.StackText + e.Severity.String()
}

// Clone returns an independent copy of e.
func (e LogEntry) Clone() LogEntry {
	c := e
	if e.Frames != nil {
		c.Frames = make([]stacktrace.Frame, len(e.Frames))
		copy(c.Frames, e.Frames)
	}
	return c
}

// CollapsedEntry is an entry together with how many equal entries it stands for.
type CollapsedEntry struct {
	Entry LogEntry `json:"entry"`
	Count int      `json:"count"`
}
