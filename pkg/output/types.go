// Package output provides formatting and output generation for parsed entries.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/logsieve/pkg/collapse"
	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// Report is the complete output of one run.
type Report struct {
	Summary  Summary                   `json:"summary"`
	Entries  []logentry.CollapsedEntry `json:"entries"`
	Metadata Metadata                  `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Total is the number of entries before collapsing.
	Total int `json:"total"`

	// Distinct is the number of collapsed rows.
	Distinct int `json:"distinct"`

	Info    int `json:"info"`
	Warning int `json:"warning"`
	Error   int `json:"error"`

	// RecordsRead is the number of raw records read from the sources.
	RecordsRead int `json:"records_read"`

	// Dropped is the number of records no grammar recognised.
	Dropped int `json:"dropped"`
}

// Metadata provides context about the run.
type Metadata struct {
	// RunID identifies the run in webhook payloads and logs.
	RunID string `json:"run_id"`

	// ConfigFile is the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the inputs that were read.
	Sources []string `json:"sources"`

	// Kind is the source kind the inputs were parsed as.
	Kind string `json:"kind,omitempty"`

	AnalyzedAt time.Time     `json:"analyzed_at"`
	Duration   time.Duration `json:"duration"`

	RecordsRead int `json:"-"`
	Dropped     int `json:"-"`
}

// NewReport snapshots the collapser. A run id is generated when meta has none.
func NewReport(c *collapse.Collapser, meta Metadata) *Report {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.AnalyzedAt.IsZero() {
		meta.AnalyzedAt = time.Now()
	}

	entries := c.Entries()
	return &Report{
		Entries:  entries,
		Metadata: meta,
		Summary: Summary{
			Total:       c.Total(),
			Distinct:    len(entries),
			Info:        c.CountBySeverity(logentry.SeverityInfo),
			Warning:     c.CountBySeverity(logentry.SeverityWarning),
			Error:       c.CountBySeverity(logentry.SeverityError),
			RecordsRead: meta.RecordsRead,
			Dropped:     meta.Dropped,
		},
	}
}

// HasErrors returns true if any error entries were seen.
func (r *Report) HasErrors() bool {
	return r.Summary.Error > 0
}
