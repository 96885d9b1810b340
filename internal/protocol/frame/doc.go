// Package frame owns the single-part message buffer.
//
// Ownership boundary:
// - positional big-endian typed access
// - UTF-8 text ranges
// - structural equality and hashing
//
// A frame imposes no layout; offsets are chosen entirely by the caller.
package frame
