package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileSource implements LogSource for reading records from log files.
type FileSource struct {
	files   []string
	grouper grouper

	currentFile    *os.File
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int
	ready          *RawRecord
}

// NewFileSource creates a LogSource that reads the given files in order.
func NewFileSource(files []string, opts ...SourceOption) *FileSource {
	o := applyOptions(opts)
	return &FileSource{
		files:     files,
		grouper:   grouper{isStart: o.isStart},
		fileIndex: -1,
	}
}

// Next returns the next record.
// Blank lines that would form a record of their own are skipped.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*RawRecord, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.ready != nil {
			rec := s.ready
			s.ready = nil
			return rec, nil
		}

		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		if s.currentScanner.Scan() {
			s.currentLine++
			line := strings.TrimRight(s.currentScanner.Text(), "\r")
			if s.grouper.pending == nil && strings.TrimSpace(line) == "" {
				continue
			}
			if rec := s.grouper.add(line, s.currentSource, s.currentLine); rec != nil {
				return rec, nil
			}
			continue
		}

		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		// Records never span files.
		s.ready = s.grouper.flush()
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentScanner = bufio.NewScanner(f)
	s.currentScanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	s.currentSource = path
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		s.currentScanner = nil
		return err
	}
	return nil
}
