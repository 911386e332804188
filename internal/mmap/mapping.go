package mmap

import (
	"io"
	"os"
	"sync/atomic"
)

// Mapping represents a memory-mapped file.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data     []byte
	size     int
	writable bool
	closed   atomic.Bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// Open maps the file at path into memory with the given protection.
// The mapping is shared: for ReadWrite, stores reach the underlying file.
func Open(path string, prot Prot) (*Mapping, error) {
	flag := os.O_RDONLY
	if prot == ReadWrite {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{data: nil, size: 0, writable: prot == ReadWrite}, nil
	}
	if size < 0 || size > int64(maxInt) {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMap(f, int(size), prot == ReadWrite)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:     data,
		size:     int(size),
		writable: prot == ReadWrite,
		unmap:    unmapFunc,
	}, nil
}

const maxInt = int(^uint(0) >> 1)

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Writable reports whether the mapping accepts writes.
func (m *Mapping) Writable() bool {
	return m.writable
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt. The write must fall entirely inside the
// mapping; nothing is written otherwise.
func (m *Mapping) WriteAt(p []byte, off int64) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if !m.writable {
		return 0, ErrReadOnly
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off+int64(len(p)) > int64(len(m.data)) {
		return 0, ErrOutOfBounds
	}
	return copy(m.data[off:], p), nil
}
