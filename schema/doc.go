// Package schema derives and persists the byte-level layout of a raw store.
//
// A [Descriptor] maps an ordered list of (name, logical type) columns to a
// packed little-endian row layout: per-column fixed widths and offsets plus
// the total row width. [Derive] rejects any logical type without a
// fixed-width encoding before a store is created.
//
// The descriptor is persisted as a versioned JSON side-car file
// ([FileName]) next to the data file and is immutable after creation except
// for the row count, which only grows.
package schema
