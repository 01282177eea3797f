// Package export renders a filtered roster as CSV or PDF.
package export

import "errors"

// Format represents the export output format
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Request contains parameters for an export operation
type Request struct {
	Format Format
	Title  string
	// NoteVisible gates the latest-note column per person; nil hides notes
	// for every row.
	NoteVisible func(personID string) bool
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
var ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
