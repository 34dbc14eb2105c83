// Package detector recognises the shape of raw log text from each source
// kind and splits it into severity, timestamp, message and stack text.
//
// Every routine is pure and independent of the others. Lines that do not fit
// a line-oriented grammar are filtered out, not reported as errors.
package detector

import (
	"fmt"
	"time"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// Record is the raw material for one log entry.
type Record struct {
	Kind      logentry.SourceKind
	Severity  logentry.Severity
	Timestamp string // as written in the source, empty if the grammar has none
	Tag       string // logcat tag
	PID       int    // logcat process id
	Message   string
	Stack     string
}

// Time parses Timestamp with the layout of the record's grammar. Layouts
// without a date yield times in year 0.
func (r Record) Time() (time.Time, error) {
	f := FormatFor(r.Kind)
	if f == nil || r.Timestamp == "" {
		return time.Time{}, fmt.Errorf("%s records carry no timestamp", r.Kind)
	}
	ts, err := time.Parse(f.Layout, r.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", r.Timestamp, err)
	}
	return ts, nil
}

// Detect runs the routine for a line-oriented kind. Editor and forwarded
// input is already structured and never comes through here.
func Detect(kind logentry.SourceKind, raw string) (Record, bool) {
	switch kind {
	case logentry.SourceDeviceLogcat:
		return Logcat(raw)
	case logentry.SourceLogFile:
		return LogFile(raw)
	default:
		return Record{}, false
	}
}
