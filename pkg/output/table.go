package output

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// maxMessageWidth caps the message column.
const maxMessageWidth = 60

// TableFormatter renders collapsed entries as a table.
type TableFormatter struct {
	opts FormatOptions
}

// NewTableFormatter creates a new table formatter with the given options.
func NewTableFormatter(opts FormatOptions) *TableFormatter {
	return &TableFormatter{opts: opts}
}

// Name returns the format name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Format renders one row per collapsed entry followed by the summary line.
func (f *TableFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if !f.opts.Quiet && len(report.Entries) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header("Count", "Severity", "Message", "Location")
		for _, row := range report.Entries {
			if err := table.Append([]string{
				strconv.Itoa(row.Count),
				row.Entry.Severity.String(),
				shorten(firstLine(row.Entry.Message), maxMessageWidth),
				location(row.Entry),
			}); err != nil {
				return fmt.Errorf("adding table row: %w", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}

	_, err := fmt.Fprintf(w, "%d entries, %d distinct, %d errors\n",
		report.Summary.Total, report.Summary.Distinct, report.Summary.Error)
	return err
}

// location is the first frame's file and line, or its class and method when
// the file is unknown.
func location(e logentry.LogEntry) string {
	if len(e.Frames) == 0 {
		return "-"
	}
	fr := e.Frames[0]
	if fr.FilePath != "" && fr.LineNumber >= 0 {
		return fmt.Sprintf("%s:%d", fr.FilePath, fr.LineNumber)
	}
	return fr.ClassName + ":" + fr.MethodName
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
