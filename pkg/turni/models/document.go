// Package models defines data structures for schedule extraction.
package models

import "time"

// Row is one body row of a weekly schedule grid.
type Row struct {
	// Label is the shift-type label taken from the first cell.
	Label string `json:"label"`
	// Cells holds the remaining cell texts in column order.
	Cells []string `json:"cells"`
}

// Table is a normalized weekly grid: a header row of day names and body rows.
type Table struct {
	// Header holds the first row including its leading label cell.
	Header []string `json:"header"`
	// Rows contains the body rows following the header.
	Rows []Row `json:"rows,omitempty"`
}

// Days returns the day names of the header, skipping the label cell.
func (t Table) Days() []string {
	if len(t.Header) <= 1 {
		return nil
	}
	return t.Header[1:]
}

// ScheduleDocument represents one source file and its extracted grids.
type ScheduleDocument struct {
	// OriginalName is the human-readable file name carrying the date range.
	OriginalName string `json:"original_name"`
	// StorageName is the sanitized handle the file is stored under.
	StorageName string `json:"storage_name"`
	// Path is the location the document was read from (empty for in-memory content).
	Path string `json:"path,omitempty"`
	// ModTime is the modification time observed at load.
	ModTime time.Time `json:"mod_time,omitempty"`
	// Tables contains the grids found in the document, in document order.
	Tables []Table `json:"tables"`
}
