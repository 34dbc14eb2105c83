package parser

import "context"

// LogSource provides an iterator over raw records.
// Implementations must be safe for sequential access (not concurrent).
type LogSource interface {
	// Next returns the next record.
	// Returns io.EOF when no more records are available.
	Next(ctx context.Context) (*RawRecord, error)

	// Close releases any resources held by the source.
	Close() error
}

// SourceOption configures file and tail sources.
type SourceOption func(*sourceOptions)

type sourceOptions struct {
	isStart func(line string) bool
}

// WithRecordStart groups lines into records: a line for which isStart
// returns true begins a new record, any other line continues the current one.
// Without it every line is its own record.
func WithRecordStart(isStart func(line string) bool) SourceOption {
	return func(o *sourceOptions) {
		o.isStart = isStart
	}
}

func applyOptions(opts []SourceOption) sourceOptions {
	var o sourceOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// grouper assembles lines into records.
type grouper struct {
	isStart func(line string) bool
	pending *RawRecord
}

// add consumes one line and returns a record that became complete, if any.
func (g *grouper) add(line, source string, lineNum int) *RawRecord {
	if g.isStart == nil {
		return &RawRecord{Text: line, Source: source, LineNum: lineNum}
	}

	if g.pending != nil && !g.isStart(line) {
		g.pending.Text += "\n" + line
		return nil
	}

	done := g.pending
	g.pending = &RawRecord{Text: line, Source: source, LineNum: lineNum}
	return done
}

// flush returns the pending record, if any.
func (g *grouper) flush() *RawRecord {
	done := g.pending
	g.pending = nil
	return done
}
