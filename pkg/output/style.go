package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// palette holds the severity styles for one writer.
type palette struct {
	enabled bool
	levels  map[logentry.Severity]lipgloss.Style
	dim     lipgloss.Style
	bold    lipgloss.Style
}

func newPalette(w io.Writer, enabled bool) palette {
	if !enabled {
		return palette{}
	}

	r := lipgloss.NewRenderer(w)
	return palette{
		enabled: true,
		levels: map[logentry.Severity]lipgloss.Style{
			logentry.SeverityInfo:    r.NewStyle().Foreground(lipgloss.Color("39")),
			logentry.SeverityWarning: r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			logentry.SeverityError:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
		dim:  r.NewStyle().Foreground(lipgloss.Color("245")),
		bold: r.NewStyle().Bold(true),
	}
}

// severity renders the padded upper-case severity label.
func (p palette) severity(s logentry.Severity) string {
	label := strings.ToUpper(s.String())
	label += strings.Repeat(" ", len("WARNING")-len(label))
	if !p.enabled {
		return label
	}
	return p.levels[s].Render(label)
}

func (p palette) faint(s string) string {
	if !p.enabled {
		return s
	}
	return p.dim.Render(s)
}

func (p palette) strong(s string) string {
	if !p.enabled {
		return s
	}
	return p.bold.Render(s)
}
