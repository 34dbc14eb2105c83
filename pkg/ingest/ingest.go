// Package ingest drives raw records from a source through detection and
// entry building into a sink.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ccollicutt/logsieve/pkg/detector"
	"github.com/ccollicutt/logsieve/pkg/logentry"
	"github.com/ccollicutt/logsieve/pkg/parser"
	"github.com/ccollicutt/logsieve/pkg/sink"
)

// Stats describes one run.
type Stats struct {
	// Records is the number of raw records read.
	Records int

	// Entries is the number of entries delivered to the sink.
	Entries int

	// Dropped is the number of records no grammar recognised.
	Dropped int

	// Sources lists the files records came from, in first-seen order.
	Sources []string

	StartTime time.Time
	EndTime   time.Time
}

// Pipeline turns records into entries.
type Pipeline struct {
	sink    sink.Sink
	builder *logentry.Builder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBuilder replaces the default entry builder.
func WithBuilder(b *logentry.Builder) Option {
	return func(p *Pipeline) {
		p.builder = b
	}
}

// New creates a pipeline delivering to s.
func New(s sink.Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		sink:    s,
		builder: logentry.NewBuilder(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Entry builds the entry for a detected record.
func (p *Pipeline) Entry(rec detector.Record) logentry.LogEntry {
	return p.builder.FromText(rec.Message, rec.Stack, rec.Severity)
}

// Deliver builds the entry for rec and hands it to the sink.
func (p *Pipeline) Deliver(ctx context.Context, rec detector.Record) error {
	return p.sink.Submit(ctx, p.Entry(rec), rec.Kind)
}

// Editor delivers a message and stack the editor already separated.
func (p *Pipeline) Editor(ctx context.Context, message, stack string, severity logentry.Severity) error {
	return p.Deliver(ctx, detector.Editor(message, stack, severity))
}

// Line detects and delivers one raw logcat line or log-file block.
// It reports false when the grammar did not recognise raw.
func (p *Pipeline) Line(ctx context.Context, kind logentry.SourceKind, raw string) (bool, error) {
	rec, ok := detector.Detect(kind, raw)
	if !ok {
		return false, nil
	}
	if err := p.Deliver(ctx, rec); err != nil {
		return true, err
	}
	return true, nil
}

// Run reads src until it is exhausted, treating every record as kind.
func (p *Pipeline) Run(ctx context.Context, kind logentry.SourceKind, src parser.LogSource) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	seen := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		rec, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading log source: %w", err)
		}

		if !seen[rec.Source] {
			seen[rec.Source] = true
			stats.Sources = append(stats.Sources, rec.Source)
		}
		stats.Records++

		ok, err := p.Line(ctx, kind, rec.Text)
		if err != nil {
			return stats, fmt.Errorf("%s:%d: %w", rec.Source, rec.LineNum, err)
		}
		if !ok {
			stats.Dropped++
			continue
		}
		stats.Entries++
	}

	stats.EndTime = time.Now()
	return stats, nil
}

// RunForwarded reads fixed-size forwarded records from r until EOF.
// A trailing partial record is an error.
func (p *Pipeline) RunForwarded(ctx context.Context, r io.Reader) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	reader := detector.NewForwardedReader(r)

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		fr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading forwarded record %d: %w", stats.Records+1, err)
		}
		stats.Records++

		if err := p.Deliver(ctx, fr.Record()); err != nil {
			return stats, fmt.Errorf("forwarded record %d: %w", stats.Records, err)
		}
		stats.Entries++
	}

	stats.EndTime = time.Now()
	return stats, nil
}

// Duration is the wall time the run took.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
