package callstack

import (
	"context"
	"runtime"
	"strings"

	"github.com/ccollicutt/logsieve/pkg/logentry"
	"github.com/ccollicutt/logsieve/pkg/sink"
	"github.com/ccollicutt/logsieve/pkg/stacktrace"
)

const maxCaptureDepth = 64

// goexitMarker ends every goroutine's stack.
const goexitMarker = "goexit"

// Capture returns the calling goroutine's stack, starting skip frames above
// the caller of Capture. Go does not expose parameter types at runtime, so
// ParamTypes is always empty.
func Capture(skip int) []stacktrace.CallFrame {
	pcs := make([]uintptr, maxCaptureDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]stacktrace.CallFrame, 0, n)
	for {
		fr, more := frames.Next()
		typ, method := SplitFunctionName(fr.Function)
		out = append(out, stacktrace.CallFrame{
			DeclaringType: typ,
			Method:        method,
			File:          fr.File,
			Line:          fr.Line,
		})
		if !more {
			break
		}
	}
	return out
}

// SplitFunctionName splits a runtime function name such as
// "example.com/pkg.(*T).Method" into "example.com/pkg.(*T)" and "Method".
// Dots inside brackets (generic instantiations) are not split points.
func SplitFunctionName(name string) (typ, method string) {
	start := strings.LastIndex(name, "/") + 1
	depth := 0
	for i := len(name) - 1; i >= start; i-- {
		switch name[i] {
		case ']':
			depth++
		case '[':
			depth--
		case '.':
			if depth == 0 {
				return name[:i], name[i+1:]
			}
		}
	}
	return "", name
}

const loggerType = "github.com/ccollicutt/logsieve/pkg/callstack.(*Logger)"

// Logger submits entries carrying the caller's filtered stack. Its own
// Info/Warn/Error frames are hidden and shown as extra info.
type Logger struct {
	sink   sink.Sink
	filter *Filter
}

// NewLogger creates a Logger. policy is merged over the Logger's own entries.
func NewLogger(s sink.Sink, policy PolicyTable, opts ...FilterOption) *Logger {
	own := PolicyTable{}
	for _, m := range []string{"Info", "Warn", "Error"} {
		own.Set(loggerType, m, Policy{Ignorable: true, ShowAsExtraInfo: true})
	}
	opts = append([]FilterOption{WithStopMethods(goexitMarker)}, opts...)
	return &Logger{
		sink:   s,
		filter: NewFilter(own.Merge(policy), opts...),
	}
}

// Info logs msg at info severity.
func (l *Logger) Info(ctx context.Context, msg string) error {
	return l.log(ctx, logentry.SeverityInfo, msg)
}

// Warn logs msg at warning severity.
func (l *Logger) Warn(ctx context.Context, msg string) error {
	return l.log(ctx, logentry.SeverityWarning, msg)
}

// Error logs msg at error severity.
func (l *Logger) Error(ctx context.Context, msg string) error {
	return l.log(ctx, logentry.SeverityError, msg)
}

func (l *Logger) log(ctx context.Context, sev logentry.Severity, msg string) error {
	frames, extra := l.filter.Apply(Capture(1))
	entry := logentry.FromCapture(msg, extra, frames, sev)
	return l.sink.Submit(ctx, entry, logentry.SourceEditor)
}
