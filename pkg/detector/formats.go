package detector

import (
	"regexp"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// LineFormat is a line-oriented source grammar the detector can recognise.
type LineFormat struct {
	Name       string              // Human-readable name
	Kind       logentry.SourceKind // Source kind the grammar belongs to
	Pattern    *regexp.Regexp      // Compiled regex (set during init)
	PatternStr string              // Pattern string for config output
	Layout     string              // Go time layout of the "timestamp" group
	Examples   []string            // Example lines
}

// Timestamp layouts used by the line grammars.
const (
	LogcatTimestampLayout  = "01-02 15:04:05.000"
	LogFileTimestampLayout = "15:04:05.000"
)

const (
	logcatPatternStr = `^(?P<timestamp>\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d{3})\s+` +
		`(?P<level>[A-Za-z])/(?P<tag>[^(\n]*?)\(\s*(?P<pid>\d+)\):\s*(?P<message>.*?)\r?$`

	logFilePatternStr = `^\[(?P<level>[A-Za-z]+)\]\s*(?P<timestamp>\d{2}:\d{2}:\d{2}\.\d{3})\|(?P<subtime>\S+)[ \t]?`

	// Stage two of the log-file grammar: one or more "Class:Method(args)"
	// frames separated by whitespace.
	stackBlockPatternStr = "(?:[\\w.`<>+$\\[\\]]+:[\\w<>$`]+[ \\t]*\\((?:[^()\\n]|\\([^()\\n]*\\))*\\)\\s*)+"
)

var (
	logcatPattern     = regexp.MustCompile(logcatPatternStr)
	logFilePattern    = regexp.MustCompile(logFilePatternStr)
	stackBlockPattern = regexp.MustCompile(stackBlockPatternStr)
)

// DefaultFormats returns the line grammars the detector tries.
func DefaultFormats() []*LineFormat {
	return []*LineFormat{
		{
			Name:       "Android logcat",
			Kind:       logentry.SourceDeviceLogcat,
			Pattern:    logcatPattern,
			PatternStr: logcatPatternStr,
			Layout:     LogcatTimestampLayout,
			Examples:   []string{"01-15 10:30:00.123 I/Unity( 1234): Player spawned"},
		},
		{
			Name:       "Player log file",
			Kind:       logentry.SourceLogFile,
			Pattern:    logFilePattern,
			PatternStr: logFilePatternStr,
			Layout:     LogFileTimestampLayout,
			Examples:   []string{"[Warning] 10:30:00.123|42 Texture missing"},
		},
	}
}

// FormatFor returns the default line grammar for kind, or nil when the kind
// is not line-oriented.
func FormatFor(kind logentry.SourceKind) *LineFormat {
	for _, f := range DefaultFormats() {
		if f.Kind == kind {
			return f
		}
	}
	return nil
}

func namedGroup(re *regexp.Regexp, m []string, name string) string {
	i := re.SubexpIndex(name)
	if i < 0 || i >= len(m) {
		return ""
	}
	return m[i]
}
