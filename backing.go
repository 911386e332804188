package rawstore

import (
	"io"
	"os"

	"github.com/hupe1980/rawstore/internal/fs"
	"github.com/hupe1980/rawstore/internal/mmap"
)

// backing is the store's data-file resource: positional reads and writes
// over the raw bytes. The mapped implementation serves the shared-map
// modes; the buffered one serves read-once mode without a mapping.
type backing interface {
	io.ReaderAt
	io.WriterAt
	Close() error
}

// mappedBacking accesses the data file through a shared memory mapping.
type mappedBacking struct {
	m *mmap.Mapping
}

func openMapped(path string, writable bool) (*mappedBacking, error) {
	prot := mmap.ReadOnly
	if writable {
		prot = mmap.ReadWrite
	}
	m, err := mmap.Open(path, prot)
	if err != nil {
		return nil, err
	}
	// Random access dominates; scans re-advise sequential.
	_ = m.Advise(mmap.AccessRandom)
	return &mappedBacking{m: m}, nil
}

func (b *mappedBacking) ReadAt(p []byte, off int64) (int, error) {
	return b.m.ReadAt(p, off)
}

func (b *mappedBacking) WriteAt(p []byte, off int64) (int, error) {
	return b.m.WriteAt(p, off)
}

func (b *mappedBacking) Close() error {
	return b.m.Close()
}

// bufferedBacking reads the data file through a plain file handle.
// It never maps and never writes.
type bufferedBacking struct {
	f fs.File
}

func openBuffered(fsys fs.FileSystem, path string) (*bufferedBacking, error) {
	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &bufferedBacking{f: f}, nil
}

func (b *bufferedBacking) ReadAt(p []byte, off int64) (int, error) {
	return b.f.ReadAt(p, off)
}

func (b *bufferedBacking) WriteAt(p []byte, off int64) (int, error) {
	return 0, &ErrModeViolation{Op: "write", Mode: ModeReadOnce}
}

func (b *bufferedBacking) Close() error {
	return b.f.Close()
}
