package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

// Common import errors
var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding, expected UTF-8")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// MissingColumnsError reports required columns absent from the header row
type MissingColumnsError struct {
	Columns []string
}

// Error implements the error interface
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// FieldError reports a value that could not be coerced to its column type.
// Line is the physical line of the record in the source file.
type FieldError struct {
	Line   int
	Column string
	Value  string
	Type   FieldType
	Err    error
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d, column %s: invalid %s %q: %v", e.Line, e.Column, e.Type, e.Value, e.Err)
}

// Unwrap returns the underlying parse error
func (e *FieldError) Unwrap() error {
	return e.Err
}

// RecordError reports a malformed CSV record
type RecordError struct {
	Line int
	Err  error
}

// Error implements the error interface
func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error
func (e *RecordError) Unwrap() error {
	return e.Err
}
