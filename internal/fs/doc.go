// Package fs provides filesystem abstractions for testability and fault
// injection.
//
//   - [LocalFS]: production implementation using the standard os package
//   - [FaultyFS]: test utility that injects I/O errors by file name pattern
//
// Production code uses fs.Default (a [LocalFS]); tests inject a [FaultyFS]
// to simulate write, sync and close failures.
//
// The package intentionally has no context.Context parameters: all
// operations are local-disk positional I/O with no cancellation point.
package fs
