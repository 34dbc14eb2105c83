package parser

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nxadm/tail"
)

// DefaultSettle is how long a tail source waits for continuation lines
// before emitting a grouped record.
const DefaultSettle = 250 * time.Millisecond

// TailSource implements LogSource by following a single growing file.
type TailSource struct {
	path    string
	tailer  *tail.Tail
	grouper grouper
	settle  time.Duration
	line    int
}

// TailOptions controls where following starts.
type TailOptions struct {
	// FromStart reads existing content before following. Otherwise only
	// lines appended after the call are returned.
	FromStart bool

	// Poll uses polling instead of filesystem notifications.
	Poll bool

	// Settle overrides DefaultSettle.
	Settle time.Duration
}

// NewTailSource starts following path. The file is reopened when rotated.
func NewTailSource(path string, topts TailOptions, opts ...SourceOption) (*TailSource, error) {
	o := applyOptions(opts)

	whence := io.SeekEnd
	if topts.FromStart {
		whence = io.SeekStart
	}

	t, err := tail.TailFile(path, tail.Config{
		Location:  &tail.SeekInfo{Offset: 0, Whence: whence},
		ReOpen:    true,
		MustExist: true,
		Follow:    true,
		Poll:      topts.Poll,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("following %s: %w", path, err)
	}

	settle := topts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	return &TailSource{
		path:    path,
		tailer:  t,
		grouper: grouper{isStart: o.isStart},
		settle:  settle,
	}, nil
}

// Next blocks until a record is available or ctx is done. A grouped record
// is emitted when the next record starts or when no line arrives within the
// settle interval. Returns io.EOF once the tailer stops.
func (s *TailSource) Next(ctx context.Context) (*RawRecord, error) {
	for {
		var settle <-chan time.Time
		if s.grouper.pending != nil {
			settle = time.After(s.settle)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-settle:
			return s.grouper.flush(), nil

		case line, ok := <-s.tailer.Lines:
			if !ok {
				if rec := s.grouper.flush(); rec != nil {
					return rec, nil
				}
				if err := s.tailer.Err(); err != nil {
					return nil, fmt.Errorf("following %s: %w", s.path, err)
				}
				return nil, io.EOF
			}
			if line.Err != nil {
				return nil, fmt.Errorf("following %s: %w", s.path, line.Err)
			}

			s.line++
			text := strings.TrimRight(line.Text, "\r")
			if s.grouper.pending == nil && strings.TrimSpace(text) == "" {
				continue
			}
			if rec := s.grouper.add(text, s.path, s.line); rec != nil {
				return rec, nil
			}
		}
	}
}

// Close stops following and releases inotify watches.
func (s *TailSource) Close() error {
	err := s.tailer.Stop()
	s.tailer.Cleanup()
	return err
}
