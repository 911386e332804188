package rawstore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/rawstore/internal/fs"
	"github.com/hupe1980/rawstore/schema"
)

// DataFileName is the data file within a store directory.
const DataFileName = "store.bin"

// Mode is the access mode of a store handle, chosen at open time.
type Mode int

const (
	// ModeReadOnly maps the data file read-only. The mapping may be
	// shared by any number of independent handles.
	ModeReadOnly Mode = iota
	// ModeReadWrite maps the data file read-write. Assumes a single
	// writer handle.
	ModeReadWrite
	// ModeAppend maps the data file read-write and additionally permits
	// Grow. Requires exclusive access to the store.
	ModeAppend
	// ModeReadOnce reads through a plain file handle with no mapping.
	ModeReadOnce
)

// String returns the string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeReadOnly:
		return "read-only"
	case ModeReadWrite:
		return "read-write"
	case ModeAppend:
		return "append"
	case ModeReadOnce:
		return "read-once"
	default:
		return "unknown"
	}
}

func (m Mode) writable() bool {
	return m == ModeReadWrite || m == ModeAppend
}

// Row is one decoded row: an ordered tuple of typed values, one per column,
// in declared order.
type Row []any

// Store is a fixed-width binary row store over a single memory-mapped data
// file, providing O(1) random-access reads and writes.
//
// A Store is not safe for concurrent use. Read-only handles may coexist;
// write and append handles assume they are the only writer, and the caller
// must exclude every other handle for the duration of a Grow.
type Store struct {
	dir     string
	mode    Mode
	desc    *schema.Descriptor
	fsys    fs.FileSystem
	logger  *slog.Logger
	backing backing
	cursor  int64 // AppendRaw write position, in bytes
	closed  bool
}

// Create makes a new store directory with the given columns and a data file
// sized for rows rows, and returns a read-write handle to it.
//
// The data file is created sparse: Create seeks to the end offset and
// writes a single byte, leaving the platform to zero-fill the rest.
// It fails with ErrAlreadyExists if the directory exists (unless
// WithAllowExisting is given) and with ErrRowCount if rows < 1.
func Create(dir string, cols []schema.Column, rows int64, opts ...Option) (*Store, error) {
	o := applyOptions(opts)

	if rows < 1 {
		return nil, fmt.Errorf("%w: %d", ErrRowCount, rows)
	}

	// Reject unsupported layouts before touching the file system.
	desc, err := schema.Derive(cols)
	if err != nil {
		return nil, err
	}
	desc.RowCount = rows

	if _, err := o.FS.Stat(dir); err == nil {
		if !o.AllowExisting {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, dir)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	if err := o.FS.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	if err := desc.Save(o.FS, dir); err != nil {
		return nil, err
	}

	if err := extendDataFile(o.FS, filepath.Join(dir, DataFileName), int64(desc.RowWidth)*rows, true); err != nil {
		return nil, err
	}

	return newStore(dir, ModeReadWrite, desc, o)
}

// Open opens an existing store directory in the given access mode.
// It fails with ErrNotFound if the directory, descriptor or data file is
// absent.
func Open(dir string, mode Mode, opts ...Option) (*Store, error) {
	o := applyOptions(opts)

	desc, err := schema.Load(o.FS, dir)
	if err != nil {
		if errors.Is(err, schema.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}

	return newStore(dir, mode, desc, o)
}

func newStore(dir string, mode Mode, desc *schema.Descriptor, o *Options) (*Store, error) {
	s := &Store{
		dir:    dir,
		mode:   mode,
		desc:   desc,
		fsys:   o.FS,
		logger: o.Logger,
	}
	if err := s.openBacking(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) dataPath() string {
	return filepath.Join(s.dir, DataFileName)
}

func (s *Store) openBacking() error {
	var (
		b   backing
		err error
	)
	switch s.mode {
	case ModeReadOnce:
		b, err = openBuffered(s.fsys, s.dataPath())
	default:
		b, err = openMapped(s.dataPath(), s.mode.writable())
	}
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, s.dataPath())
		}
		return err
	}
	s.backing = b
	return nil
}

// ready reports whether the handle can perform I/O. A nil backing only
// happens when a grow failed to reopen the data file; the handle is then
// as good as closed.
func (s *Store) ready() error {
	if s.closed || s.backing == nil {
		return ErrClosed
	}
	return nil
}

// Mode returns the handle's access mode.
func (s *Store) Mode() Mode {
	return s.mode
}

// Len returns the number of rows allocated in the store.
func (s *Store) Len() int64 {
	return s.desc.RowCount
}

// RowWidth returns the byte width of one encoded row.
func (s *Store) RowWidth() int {
	return s.desc.RowWidth
}

// Descriptor returns the store's schema descriptor. Callers must not
// modify it.
func (s *Store) Descriptor() *schema.Descriptor {
	return s.desc
}

// Get returns the row at idx, decoded per column in declared order.
// It fails with ErrIndexOutOfRange outside [0, Len()) and with
// ErrCorrupted if the data file yields fewer than RowWidth bytes.
func (s *Store) Get(idx int64) (Row, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if idx < 0 || idx >= s.desc.RowCount {
		return nil, &ErrIndexOutOfRange{Index: idx, Count: s.desc.RowCount}
	}

	off := idx * int64(s.desc.RowWidth)
	buf := make([]byte, s.desc.RowWidth)

	n, err := s.backing.ReadAt(buf, off)
	if n < len(buf) {
		return nil, &ErrCorrupted{Offset: off, Got: n, Want: len(buf)}
	}
	if err != nil && err != io.EOF {
		return nil, err
	}

	row := make(Row, len(s.desc.Columns))
	for i, c := range s.desc.Columns {
		row[i] = c.Type.Decode(buf[c.Offset : c.Offset+c.Width])
	}
	return row, nil
}

// GetMap returns the row at idx as a column-name-to-value map.
func (s *Store) GetMap(idx int64) (map[string]any, error) {
	row, err := s.Get(idx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any, len(row))
	for i, c := range s.desc.Columns {
		m[c.Name] = row[i]
	}
	return m, nil
}

// Put coerces every value of row to its column's declared type, encodes the
// row and writes exactly RowWidth bytes at idx*RowWidth.
//
// It fails with ErrModeViolation on read-only handles, ErrIndexOutOfRange
// outside [0, Len()), ErrRowArity on a length mismatch and ErrTypeMismatch
// enumerating every column whose value could not be coerced. The data file
// is untouched unless the whole row encodes.
func (s *Store) Put(idx int64, row Row) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !s.mode.writable() {
		return &ErrModeViolation{Op: "put", Mode: s.mode}
	}
	if idx < 0 || idx >= s.desc.RowCount {
		return &ErrIndexOutOfRange{Index: idx, Count: s.desc.RowCount}
	}
	if len(row) != len(s.desc.Columns) {
		return &ErrRowArity{Got: len(row), Want: len(s.desc.Columns)}
	}

	coerced, err := coerceRow(s.desc, row)
	if err != nil {
		return err
	}

	buf := make([]byte, s.desc.RowWidth)
	for i, c := range s.desc.Columns {
		if err := c.Type.Encode(buf[c.Offset:c.Offset+c.Width], coerced[i]); err != nil {
			return err
		}
	}

	_, err = s.backing.WriteAt(buf, idx*int64(s.desc.RowWidth))
	return err
}

// AppendRaw encodes row with no type coercion at the handle's write cursor
// and advances the cursor by RowWidth. Values must already have their
// columns' exact Go types.
//
// The caller is responsible for ordering and for staying within the
// allocated rows: AppendRaw performs no bounds check against Len() and
// must not be mixed with Get/Put index-based access on the same region.
func (s *Store) AppendRaw(row Row) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !s.mode.writable() {
		return &ErrModeViolation{Op: "append", Mode: s.mode}
	}
	if len(row) != len(s.desc.Columns) {
		return &ErrRowArity{Got: len(row), Want: len(s.desc.Columns)}
	}

	buf := make([]byte, s.desc.RowWidth)
	for i, c := range s.desc.Columns {
		if err := c.Type.Encode(buf[c.Offset:c.Offset+c.Width], row[i]); err != nil {
			return err
		}
	}

	if _, err := s.backing.WriteAt(buf, s.cursor); err != nil {
		return err
	}
	s.cursor += int64(s.desc.RowWidth)
	return nil
}

// Grow appends extra blank rows to the store. Valid only in append mode;
// it fails with ErrGrowCount if extra < 1.
//
// Grow closes the backing resource, extends the data file (sparse, like
// Create), bumps the row count, persists the descriptor and reopens the
// backing. The reopen happens on every exit path, so even when the
// descriptor persist fails the handle comes back usable; that error is
// returned and the caller must treat it as fatal and re-verify the row
// count on a fresh open. No other handle may touch the store during the
// close/extend/reopen window.
func (s *Store) Grow(extra int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.mode != ModeAppend {
		return &ErrModeViolation{Op: "grow", Mode: s.mode}
	}
	if extra < 1 {
		return fmt.Errorf("%w: %d", ErrGrowCount, extra)
	}

	if err := s.backing.Close(); err != nil {
		s.backing = nil
		_ = s.openBacking() // best effort before surfacing the close error
		return err
	}
	s.backing = nil

	growErr := s.extend(extra)

	if err := s.openBacking(); err != nil && growErr == nil {
		growErr = err
	}
	return growErr
}

func (s *Store) extend(extra int64) error {
	end := (s.desc.RowCount + extra) * int64(s.desc.RowWidth)
	s.logger.Debug("extending data file", "path", s.dataPath(), "offset", end, "extra_rows", extra)

	if err := extendDataFile(s.fsys, s.dataPath(), end, false); err != nil {
		return err
	}

	s.desc.RowCount += extra
	if err := s.desc.Save(s.fsys, s.dir); err != nil {
		return err
	}

	if fi, err := s.fsys.Stat(s.dataPath()); err == nil {
		s.logger.Info("store grown", "rows", s.desc.RowCount, "file_size", fi.Size())
	}
	return nil
}

// extendDataFile grows the file at path to end+1 bytes by seeking to end
// and writing a single sentinel byte. The skipped range is left to the
// platform's sparse-file zero fill.
func extendDataFile(fsys fs.FileSystem, path string, end int64, create bool) error {
	flag := os.O_RDWR
	if create {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := fsys.OpenFile(path, flag, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Seek(end, io.SeekStart); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write([]byte{0}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close releases the mapping and the underlying file handle. It is
// idempotent; any other operation on a closed handle fails with ErrClosed.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.backing != nil {
		err := s.backing.Close()
		s.backing = nil
		return err
	}
	return nil
}
