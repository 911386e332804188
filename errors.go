package rawstore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the store directory, descriptor or data
	// file does not exist.
	ErrNotFound = errors.New("rawstore: store not found")

	// ErrAlreadyExists is returned by Create when the target directory
	// already exists and existence checking is on.
	ErrAlreadyExists = errors.New("rawstore: store already exists")

	// ErrClosed is returned when operating on a closed store handle.
	ErrClosed = errors.New("rawstore: store is closed")

	// ErrRowCount is returned by Create when the row count is not positive.
	ErrRowCount = errors.New("rawstore: row count must be positive")

	// ErrGrowCount is returned by Grow when the number of extra rows is
	// not positive.
	ErrGrowCount = errors.New("rawstore: grow count must be positive")
)

// ErrIndexOutOfRange indicates a row index outside [0, Count).
type ErrIndexOutOfRange struct {
	Index int64
	Count int64
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("rawstore: index %d out of range (store has %d rows)", e.Index, e.Count)
}

// ErrColumnNotFound indicates an unknown column name.
type ErrColumnNotFound struct {
	Name string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("rawstore: no column %q", e.Name)
}

// ErrRowArity indicates a row whose length does not match the column count.
type ErrRowArity struct {
	Got  int
	Want int
}

func (e *ErrRowArity) Error() string {
	return fmt.Sprintf("rawstore: row has %d values, store has %d columns", e.Got, e.Want)
}

// ErrModeViolation indicates an operation not permitted by the handle's
// access mode, such as a write on a read-only store or growth outside
// append mode.
type ErrModeViolation struct {
	Op   string
	Mode Mode
}

func (e *ErrModeViolation) Error() string {
	return fmt.Sprintf("rawstore: %s not permitted in %s mode", e.Op, e.Mode)
}

// ErrCorrupted indicates a read that returned fewer bytes than the layout
// requires at a position that is not a legitimate end of data.
type ErrCorrupted struct {
	Offset int64
	Got    int
	Want   int
}

func (e *ErrCorrupted) Error() string {
	return fmt.Sprintf("rawstore: short read at offset %d: got %d bytes, want %d", e.Offset, e.Got, e.Want)
}

// ColumnError describes one column whose value could not be coerced.
type ColumnError struct {
	Name  string
	Value any
	Err   error
}

// ErrTypeMismatch reports every column of a Put whose value could not be
// coerced to the column's declared type, not just the first, to aid
// bulk-data debugging.
type ErrTypeMismatch struct {
	Columns []ColumnError
}

func (e *ErrTypeMismatch) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rawstore: %d column(s) failed coercion:", len(e.Columns))
	for _, c := range e.Columns {
		fmt.Fprintf(&b, "\n\tcolumn %q: cannot convert %#v: %v", c.Name, c.Value, c.Err)
	}
	return b.String()
}
