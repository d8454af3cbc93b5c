package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrParse indicates the input file could not be read or decoded
	// under the declared encoding.
	ErrParse = errors.New("dataset: cannot parse input file")
	// ErrMissingValue indicates a required numeric column still holds a
	// missing value where a complete column is expected.
	ErrMissingValue = errors.New("dataset: missing value in numeric column")
	// ErrUnknownColumn indicates a referenced column is not in the table schema.
	ErrUnknownColumn = errors.New("dataset: unknown column")
	// ErrEmptyTable indicates the file holds a header but no data rows.
	ErrEmptyTable = errors.New("dataset: table has no data rows")
)

func errMissingAt(row int, column string) error {
	return fmt.Errorf("%w: row %d, column %q", ErrMissingValue, row, column)
}
