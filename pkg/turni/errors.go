package turni

import (
	"errors"
	"fmt"
)

// ErrNoDocuments indicates a run was started without any document.
var ErrNoDocuments = errors.New("no documents provided")

// ErrNoShiftsFound indicates the run completed but produced no shifts.
// It is returned together with the result so the summary can be inspected.
var ErrNoShiftsFound = errors.New("no shifts found")

// DocumentError represents a failure to read one document.
type DocumentError struct {
	Document string
	Stage    string // "load", "parse"
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %q (%s): %v", e.Document, e.Stage, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewDocumentError creates a new DocumentError.
func NewDocumentError(document, stage string, err error) *DocumentError {
	return &DocumentError{
		Document: document,
		Stage:    stage,
		Err:      err,
	}
}
