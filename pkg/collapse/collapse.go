// Package collapse groups equal log entries into counted rows.
package collapse

import (
	"context"
	"sync"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// Collapser is a sink that keeps one row per distinct entry, in first-seen
// order, counting repeats. It is safe for concurrent use.
type Collapser struct {
	mu     sync.Mutex
	index  map[string]int
	rows   []logentry.CollapsedEntry
	counts map[logentry.Severity]int
	total  int
	keep   bool
}

// New creates an empty Collapser.
func New() *Collapser {
	return &Collapser{
		index:  make(map[string]int),
		counts: make(map[logentry.Severity]int),
	}
}

// NewList creates a Collapser that keeps every entry as its own row.
func NewList() *Collapser {
	c := New()
	c.keep = true
	return c
}

// Submit implements sink.Sink.
func (c *Collapser) Submit(_ context.Context, entry logentry.LogEntry, _ logentry.SourceKind) error {
	c.Add(entry)
	return nil
}

// Add records entry and returns the count of its row after adding.
func (c *Collapser) Add(entry logentry.LogEntry) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.counts[entry.Severity]++

	if !c.keep {
		key := entry.DedupKey()
		if i, ok := c.index[key]; ok {
			c.rows[i].Count++
			return c.rows[i].Count
		}
		c.index[key] = len(c.rows)
	}

	c.rows = append(c.rows, logentry.CollapsedEntry{Entry: entry.Clone(), Count: 1})
	return 1
}

// Entries returns a copy of the collapsed rows in first-seen order.
func (c *Collapser) Entries() []logentry.CollapsedEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]logentry.CollapsedEntry, len(c.rows))
	for i, row := range c.rows {
		out[i] = logentry.CollapsedEntry{Entry: row.Entry.Clone(), Count: row.Count}
	}
	return out
}

// Total returns how many entries were added, repeats included.
func (c *Collapser) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// CountBySeverity returns how many entries of the given severity were added.
func (c *Collapser) CountBySeverity(s logentry.Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[s]
}

// Reset clears all rows.
func (c *Collapser) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[string]int)
	c.rows = nil
	c.counts = make(map[logentry.Severity]int)
	c.total = 0
}
