package detector

import (
	"strconv"
	"strings"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// Logcat parses "MM-DD HH:MM:SS.mmm L/tag( pid): message". Lines that do not
// have this shape produce no record.
func Logcat(line string) (Record, bool) {
	m := logcatPattern.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}

	pid, _ := strconv.Atoi(namedGroup(logcatPattern, m, "pid"))

	return Record{
		Kind:      logentry.SourceDeviceLogcat,
		Severity:  logcatSeverity(namedGroup(logcatPattern, m, "level")),
		Timestamp: namedGroup(logcatPattern, m, "timestamp"),
		Tag:       strings.TrimSpace(namedGroup(logcatPattern, m, "tag")),
		PID:       pid,
		Message:   namedGroup(logcatPattern, m, "message"),
	}, true
}

// logcatSeverity maps I and W; E and every other level character are errors.
func logcatSeverity(level string) logentry.Severity {
	switch level {
	case "I":
		return logentry.SeverityInfo
	case "W":
		return logentry.SeverityWarning
	default:
		return logentry.SeverityError
	}
}
