// Package maxheap implements a max-heap of fixed-size byte elements on top of
// an array.Buffer. Elements are ordered by a caller supplied CmpFunc; the
// Uint64 helpers encode numbers so they can be ordered as plain bytes.
package maxheap
