// Package mmap provides memory-mapped file access for the row store's
// backing resource.
//
// A [Mapping] is a shared map of a whole file, opened read-only or
// read-write. Writes to a read-write mapping reach the underlying file.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) access hints
//   - Windows: CreateFileMapping/MapViewOfFile (advice is a no-op)
//
// Close is idempotent and protected by an atomic flag, but callers must
// ensure no reads or writes race with Close: slices into the mapped region
// are invalid once it returns.
package mmap
