package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// StreamSink writes each entry as it arrives, for follow mode. Text format
// writes the same block the text report uses; json writes one object per
// line. It is safe for concurrent use.
type StreamSink struct {
	mu      sync.Mutex
	w       io.Writer
	json    bool
	text    *TextFormatter
	palette palette
}

// NewStreamSink creates a sink writing format ("text" or "json") to w.
func NewStreamSink(w io.Writer, format string, opts FormatOptions) (*StreamSink, error) {
	s := &StreamSink{w: w, text: NewTextFormatter(opts), palette: newPalette(w, opts.Color)}
	switch format {
	case "text", "":
	case "json":
		s.json = true
	default:
		return nil, fmt.Errorf("format %q cannot stream (want text or json)", format)
	}
	return s, nil
}

type streamLine struct {
	Kind  logentry.SourceKind `json:"kind"`
	Entry logentry.LogEntry   `json:"entry"`
}

// Submit writes entry immediately.
func (s *StreamSink) Submit(_ context.Context, entry logentry.LogEntry, kind logentry.SourceKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.json {
		b, err := json.Marshal(streamLine{Kind: kind, Entry: entry})
		if err != nil {
			return fmt.Errorf("encoding entry: %w", err)
		}
		b = append(b, '\n')
		_, err = s.w.Write(b)
		return err
	}

	s.text.writeEntry(s.w, s.palette, entry, 0)
	return nil
}
