package commands

import (
	"context"
	"fmt"

	"github.com/ccollicutt/logsieve/pkg/config"
	"github.com/ccollicutt/logsieve/pkg/detector"
	"github.com/ccollicutt/logsieve/pkg/logentry"
	"github.com/ccollicutt/logsieve/pkg/parser"
)

// input is one file with its resolved kind.
type input struct {
	path string
	kind logentry.SourceKind
}

// resolveInputs expands every source's globs and settles each file's kind.
func resolveInputs(ctx context.Context, sources []config.SourceConfig) ([]input, error) {
	var inputs []input
	for _, src := range sources {
		kind, explicit, err := src.SourceKind()
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Path, err)
		}

		files, err := parser.ExpandGlobs([]string{src.Path})
		if err != nil {
			return nil, err
		}

		for _, file := range files {
			k := kind
			if !explicit {
				if k, err = detectKind(ctx, file); err != nil {
					return nil, err
				}
			}
			inputs = append(inputs, input{path: file, kind: k})
		}
	}
	return inputs, nil
}

// detectKind identifies a file's kind from its content. Forwarded binary
// streams are checked first since sampling them as text is meaningless.
func detectKind(ctx context.Context, path string) (logentry.SourceKind, error) {
	forwarded, err := detector.IsForwardedFile(path)
	if err != nil {
		return 0, fmt.Errorf("log file not readable: %w", err)
	}
	if forwarded {
		return logentry.SourceForwarded, nil
	}

	result, err := detector.New().DetectFromFile(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("detecting format of %s: %w", path, err)
	}
	kind, ok := result.Kind()
	if !ok {
		return 0, fmt.Errorf("cannot detect the format of %s (use --kind)", path)
	}
	return kind, nil
}

// sourceOptions returns the record grouping for a line-oriented kind.
func sourceOptions(kind logentry.SourceKind) []parser.SourceOption {
	if kind == logentry.SourceLogFile {
		return []parser.SourceOption{parser.WithRecordStart(detector.IsLogFileHeader)}
	}
	return nil
}
