package detector

import (
	"strings"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// LogFile parses one log-file record: a "[Level] time|subtime" header line,
// optionally followed by continuation lines. The first embedded run of
// "Class:Method(args)" frames becomes the stack; the rest is the message.
// Blocks without the header produce no record.
func LogFile(block string) (Record, bool) {
	header := logFilePattern.FindStringSubmatch(block)
	if header == nil {
		return Record{}, false
	}

	rec := Record{
		Kind:      logentry.SourceLogFile,
		Severity:  logFileSeverity(namedGroup(logFilePattern, header, "level")),
		Timestamp: namedGroup(logFilePattern, header, "timestamp"),
	}

	body := block[len(header[0]):]
	if s := stackBlockPattern.FindStringIndex(body); s != nil {
		rec.Stack = strings.TrimSpace(body[s[0]:s[1]])
		body = body[:s[0]] + body[s[1]:]
	}
	rec.Message = strings.TrimSpace(body)

	return rec, true
}

func logFileSeverity(level string) logentry.Severity {
	switch strings.ToLower(level) {
	case "log":
		return logentry.SeverityInfo
	case "warning":
		return logentry.SeverityWarning
	default:
		return logentry.SeverityError
	}
}

// IsLogFileHeader reports whether line starts a new log-file record.
func IsLogFileHeader(line string) bool {
	return logFilePattern.MatchString(line)
}
