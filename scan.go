package rawstore

import (
	"fmt"
	"io"

	"github.com/hupe1980/rawstore/internal/mmap"
	"github.com/hupe1980/rawstore/schema"
)

// Rows returns a fresh forward-only iterator over all rows in index order.
//
//	it := store.Rows()
//	for it.Next() {
//	    row := it.Row()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
func (s *Store) Rows() *RowIter {
	return &RowIter{s: s}
}

// RowIter iterates over decoded rows. It is exhausted after Len() rows;
// obtain a new iterator from Rows to restart.
type RowIter struct {
	s    *Store
	next int64
	row  Row
	err  error
}

// Next advances to the next row. It returns false at the end of the store
// or on the first error.
func (it *RowIter) Next() bool {
	if it.err != nil || it.next >= it.s.desc.RowCount {
		return false
	}
	row, err := it.s.Get(it.next)
	if err != nil {
		it.err = err
		return false
	}
	it.row = row
	it.next++
	return true
}

// Row returns the current row.
func (it *RowIter) Row() Row {
	return it.row
}

// Index returns the index of the current row.
func (it *RowIter) Index() int64 {
	return it.next - 1
}

// Err returns the first error encountered, if any.
func (it *RowIter) Err() error {
	return it.err
}

// Column returns a lazy scanner over the named column's value in every row,
// without materializing full rows. It fails with ErrColumnNotFound for an
// unknown name.
func (s *Store) Column(name string) (*ColumnScanner, error) {
	idx := s.desc.Index(name)
	if idx < 0 {
		return nil, &ErrColumnNotFound{Name: name}
	}
	return s.ColumnAt(idx)
}

// ColumnAt is Column by position in declared order.
func (s *Store) ColumnAt(idx int) (*ColumnScanner, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(s.desc.Columns) {
		return nil, &ErrColumnNotFound{Name: fmt.Sprintf("#%d", idx)}
	}

	if mb, ok := s.backing.(*mappedBacking); ok {
		_ = mb.m.Advise(mmap.AccessSequential)
	}

	col := s.desc.Columns[idx]
	return &ColumnScanner{
		s:   s,
		col: col,
		off: int64(col.Offset),
		buf: make([]byte, col.Width),
	}, nil
}

// ColumnScanner walks one column across all rows: it reads exactly the
// column's width at its offset within each row, striding by the row width.
// The sequence is finite, forward-only and not restartable; obtain a new
// scanner to rescan.
type ColumnScanner struct {
	s    *Store
	col  schema.Column
	off  int64
	rows int64
	val  any
	err  error
	buf  []byte
}

// Next advances to the column's value in the next row. A missing
// full-width read exactly at the stride position ends the scan cleanly;
// a partial read anywhere is a corruption error surfaced via Err.
func (c *ColumnScanner) Next() bool {
	if c.err != nil || c.rows >= c.s.desc.RowCount {
		return false
	}
	if err := c.s.ready(); err != nil {
		c.err = err
		return false
	}

	n, err := c.s.backing.ReadAt(c.buf, c.off)
	if n < len(c.buf) {
		if n == 0 && err == io.EOF {
			return false // end of data at the expected boundary
		}
		c.err = &ErrCorrupted{Offset: c.off, Got: n, Want: len(c.buf)}
		return false
	}
	if err != nil && err != io.EOF {
		c.err = err
		return false
	}

	c.val = c.col.Type.Decode(c.buf)
	c.rows++
	c.off += int64(c.s.desc.RowWidth)
	return true
}

// Value returns the current column value.
func (c *ColumnScanner) Value() any {
	return c.val
}

// Err returns the first error encountered, if any.
func (c *ColumnScanner) Err() error {
	return c.err
}
