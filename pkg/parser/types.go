// Package parser reads raw log records from files for the detectors.
package parser

// RawRecord is one unparsed record: a single line, or a header line plus
// its continuation lines when the source groups records.
type RawRecord struct {
	// Text is the record content without the trailing newline.
	Text string

	// Source is the file path this record came from.
	Source string

	// LineNum is the 1-based line number of the record's first line.
	LineNum int
}
