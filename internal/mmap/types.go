package mmap

import "errors"

// Prot selects the protection of a mapping.
type Prot int

const (
	// ReadOnly maps the file for shared reads.
	ReadOnly Prot = iota
	// ReadWrite maps the file for shared reads and writes; stores to the
	// mapped region reach the underlying file.
	ReadWrite
)

// AccessPattern provides hints to the kernel about how the data will be accessed.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects data to be accessed sequentially.
	AccessSequential
	// AccessRandom expects data to be accessed randomly.
	AccessRandom
)

var (
	// ErrClosed is returned when attempting to access a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrReadOnly is returned when writing to a read-only mapping.
	ErrReadOnly = errors.New("mmap: mapping is read-only")
	// ErrInvalidSize is returned when the file size is invalid.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrOutOfBounds is returned when accessing beyond the mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrInvalidOffset is returned when the offset is negative.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
