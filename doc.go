// Package rawstore implements a fixed-width binary row store with O(1)
// random access over a single memory-mapped data file.
//
// One store is one directory: a versioned schema descriptor (schema.json)
// describing the packed little-endian row layout, and a data file
// (store.bin) of exactly rowCount consecutive fixed-width rows plus a
// single byte of sparse-file padding.
//
// # Quick Start
//
//	cols := []schema.Column{
//	    {Name: "id", Type: schema.Int64()},
//	    {Name: "score", Type: schema.Float32()},
//	    {Name: "tag", Type: schema.FixedBytes(8)},
//	}
//	store, _ := rawstore.Create("./data", cols, 1_000_000)
//	defer store.Close()
//
//	store.Put(0, rawstore.Row{int64(1), float32(0.5), "hot"})
//	row, _ := store.Get(0)
//
//	store, _ = rawstore.Open("./data", rawstore.ModeReadOnly) // re-open existing
//
// # Access Modes
//
// A handle is opened in exactly one mode: ModeReadOnly (shared read-only
// mapping), ModeReadWrite (shared read-write mapping), ModeAppend
// (read-write mapping that additionally permits Grow) or ModeReadOnce
// (plain buffered reads, no mapping).
//
// # Concurrency
//
// Every operation is a direct blocking positional access. Read-only
// handles may be shared freely; the write and append modes assume a single
// writer, and the store performs no locking of its own. Grow requires
// exclusive access while it closes, extends and reopens the data file.
//
// Transactions, crash recovery, compression and concurrent-writer safety
// are explicitly out of scope: this is a raw flat-file positional format.
package rawstore
