package dataset

import (
	"errors"
	"fmt"
)

// ErrNoDataset is returned when a view is requested before any upload succeeded.
var ErrNoDataset = errors.New("no dataset loaded")

// SchemaError means the workbook does not have the expected shape.
type SchemaError struct {
	Sheet  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: sheet %q: %s", e.Sheet, e.Reason)
}

// ParseError means the workbook, or a cell that must be coerced, could not be read.
// Row is the 1-based sheet row, 0 when the failure is not tied to a cell.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row == 0 {
		if e.Column != "" {
			return fmt.Sprintf("parse error: column %s: %v", e.Column, e.Err)
		}
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("parse error: row %d column %s value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
