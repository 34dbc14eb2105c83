package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/logsieve/pkg/logentry"
	"github.com/ccollicutt/logsieve/pkg/stacktrace"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	p := newPalette(w, f.opts.Color)
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w, p)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "logsieve: %d entries, %d distinct, %d errors\n",
		report.Summary.Total,
		report.Summary.Distinct,
		report.Summary.Error)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer, p palette) error {
	fmt.Fprintln(w, p.strong("=== logsieve report ==="))
	fmt.Fprintln(w)

	if len(report.Entries) == 0 {
		fmt.Fprintln(w, "No entries")
		fmt.Fprintln(w)
	}

	for _, row := range report.Entries {
		f.writeEntry(w, p, row.Entry, row.Count)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d entries, %d distinct (info %d, warning %d, error %d)\n",
		report.Summary.Total,
		report.Summary.Distinct,
		report.Summary.Info,
		report.Summary.Warning,
		report.Summary.Error)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Records read: %d, unrecognised: %d\n", report.Summary.RecordsRead, report.Summary.Dropped)
		fmt.Fprintf(w, "Run: %s\n", report.Metadata.RunID)
		_, err := fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
		return err
	}

	return nil
}

// writeEntry prints one entry. count is omitted when zero.
func (f *TextFormatter) writeEntry(w io.Writer, p palette, e logentry.LogEntry, count int) {
	prefix := p.severity(e.Severity)
	if count > 0 {
		prefix += fmt.Sprintf(" x%-3d", count)
	}

	lines := strings.Split(e.Message, "\n")
	fmt.Fprintf(w, "%s %s\n", prefix, lines[0])
	for _, l := range lines[1:] {
		fmt.Fprintf(w, "    %s\n", l)
	}

	frames := e.Frames
	if !f.opts.Verbose && len(frames) > 1 {
		frames = frames[:1]
	}
	for _, fr := range frames {
		fmt.Fprintf(w, "    %s\n", p.faint(frameLine(fr)))
	}
	if hidden := len(e.Frames) - len(frames); hidden > 0 {
		fmt.Fprintf(w, "    %s\n", p.faint(fmt.Sprintf("... %d more", hidden)))
	}

	if f.opts.Verbose && e.ExtraInfo != "" {
		for _, l := range strings.Split(strings.TrimRight(e.ExtraInfo, "\n"), "\n") {
			fmt.Fprintf(w, "    %s\n", p.faint("| "+l))
		}
	}
}

// frameLine prefixes a frame with "at " unless its text already starts with it.
func frameLine(fr stacktrace.Frame) string {
	if strings.HasPrefix(fr.FormattedText, "at ") {
		return fr.FormattedText
	}
	return "at " + fr.FormattedText
}
