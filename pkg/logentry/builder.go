package logentry

import (
	"strings"

	"github.com/ccollicutt/logsieve/pkg/stacktrace"
)

// Builder assembles entries using a stack parser with a given grammar order.
type Builder struct {
	parser *stacktrace.Parser
}

// NewBuilder creates a Builder. A nil parser uses the default grammar order.
func NewBuilder(p *stacktrace.Parser) *Builder {
	if p == nil {
		p = stacktrace.NewParser()
	}
	return &Builder{parser: p}
}

var defaultBuilder = NewBuilder(nil)

// FromText builds an entry with the default grammar order.
func FromText(message, stack string, severity Severity) LogEntry {
	return defaultBuilder.FromText(message, stack, severity)
}

// FromText builds an entry from a message and its raw stack block.
//
// When the stack is empty the message itself may carry a compiler location
// ("path(line,col): ..."); that location becomes the single frame and is
// removed from the message.
func (b *Builder) FromText(message, stack string, severity Severity) LogEntry {
	e := LogEntry{
		Message:   message,
		Severity:  severity,
		StackText: stack,
	}

	if strings.TrimSpace(stack) == "" {
		e.StackText = ""
		if frame, rest, ok := stacktrace.ParseDiagnostic(message); ok {
			e.Message = rest
			e.StackText = frame.FormattedText
			e.Frames = []stacktrace.Frame{frame}
		}
		return e
	}

	res := b.parser.Parse(stack)
	e.Frames = res.Frames
	e.ExtraInfo = res.ExtraInfo
	return e
}

// FromCapture builds an entry from already filtered live frames.
// StackText is extraInfo followed by one line per frame; a nil frame list
// is treated as no frames.
func FromCapture(message, extraInfo string, frames []stacktrace.Frame, severity Severity) LogEntry {
	var sb strings.Builder
	sb.WriteString(extraInfo)

	e := LogEntry{
		Message:   message,
		ExtraInfo: extraInfo,
		Severity:  severity,
	}
	if len(frames) > 0 {
		e.Frames = make([]stacktrace.Frame, 0, len(frames))
	}
	for _, f := range frames {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.FormattedText)
		e.Frames = append(e.Frames, f)
	}
	e.StackText = sb.String()

	return e
}
