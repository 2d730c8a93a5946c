// Package maxheap
//
// This file provides a binary max-heap of fixed-size byte elements.
//
// The heap keeps its elements in a single array.Buffer and lets container/heap
// maintain the heap order over it, so it has the same growth behaviour as the
// buffer: it grows in blocks, or fails with array.ErrGrowthDisabled when the
// block size is zero and the buffer is full.
//
// Time Complexity:
//   - O(log n) for Push and Pop
//   - O(1) for Peek and Len
//
// Note: This implementation is not thread-safe.
//
// Example usage:
//
//	h, _ := maxheap.New(16, 16, 8, maxheap.CompareUint64)
//	_ = h.Push(maxheap.Uint64(3))
//	_ = h.Push(maxheap.Uint64(7))
//	top, _ := h.Pop() // 7
package maxheap

import (
	"bytes"
	"container/heap"
	"encoding/binary"

	"github.com/ValentinKolb/alib/lib/array"
	"github.com/pkg/errors"
)

// CmpFunc orders two elements: it returns a positive number if a > b,
// a negative one if a < b and zero if both are equal.
type CmpFunc func(a, b []byte) int

// raw adapts an array.Buffer to heap.Interface
type raw struct {
	buf *array.Buffer
	cmp CmpFunc
	tmp []byte // Scratch element for Swap
}

// Len returns the number of elements (part of heap.Interface)
func (r *raw) Len() int { return r.buf.Count() }

// Less reports whether i sorts before j, larger elements first (part of heap.Interface)
func (r *raw) Less(i, j int) bool {
	return r.cmp(r.buf.At(i), r.buf.At(j)) > 0
}

// Swap exchanges elements i and j (part of heap.Interface)
func (r *raw) Swap(i, j int) {
	a, b := r.buf.At(i), r.buf.At(j)
	copy(r.tmp, a)
	copy(a, b)
	copy(b, r.tmp)
}

// Push appends an element, the room for it was reserved by MaxHeap.Push (part of heap.Interface)
func (r *raw) Push(x interface{}) {
	if err := r.buf.Push(x.([]byte)); err != nil {
		panic(err)
	}
}

// Pop removes and returns a copy of the last element (part of heap.Interface)
func (r *raw) Pop() interface{} {
	out := make([]byte, r.buf.ElementSize())
	if err := r.buf.Pop(out); err != nil {
		panic(err)
	}
	return out
}

// MaxHeap is a priority queue that always yields its largest element first
type MaxHeap struct {
	raw raw
}

// New creates an empty heap. blockSize, capacity and elementSize have the same
// meaning as for array.New.
func New(blockSize, capacity, elementSize int, cmp CmpFunc) (*MaxHeap, error) {
	if cmp == nil {
		cmp = bytes.Compare
	}
	buf, err := array.New(blockSize, capacity, elementSize)
	if err != nil {
		return nil, errors.Wrap(err, "heap storage")
	}
	return &MaxHeap{raw: raw{
		buf: buf,
		cmp: cmp,
		tmp: make([]byte, elementSize),
	}}, nil
}

// Push adds elem. It fails if elem does not have the element size or the heap
// cannot grow.
func (h *MaxHeap) Push(elem []byte) error {
	if len(elem) != h.raw.buf.ElementSize() {
		return errors.Wrapf(array.ErrElementSize, "push %d bytes, element size is %d", len(elem), h.raw.buf.ElementSize())
	}
	if err := h.raw.buf.Grow(1); err != nil {
		return errors.Wrap(err, "push")
	}
	heap.Push(&h.raw, elem)
	return nil
}

// Pop removes and returns the largest element.
func (h *MaxHeap) Pop() ([]byte, error) {
	if h.raw.Len() == 0 {
		return nil, array.ErrEmpty
	}
	return heap.Pop(&h.raw).([]byte), nil
}

// Peek returns the largest element without removing it. The slice aliases the
// heap and is only valid until the next Push or Pop.
func (h *MaxHeap) Peek() ([]byte, bool) {
	if h.raw.Len() == 0 {
		return nil, false
	}
	return h.raw.buf.At(0), true
}

// Len returns the number of elements
func (h *MaxHeap) Len() int { return h.raw.Len() }

// Release drops the storage. The heap must not be used afterwards.
func (h *MaxHeap) Release() {
	h.raw.buf.Release()
	h.raw.tmp = nil
}

// --------------------------------------------------------------------------
// Helpers for uint64 elements
// --------------------------------------------------------------------------

// Uint64 encodes v as an 8 byte big endian element, so that bytes.Compare
// and CompareUint64 order elements like the numbers they hold.
func Uint64(v uint64) []byte {
	var elem [8]byte
	binary.BigEndian.PutUint64(elem[:], v)
	return elem[:]
}

// ToUint64 decodes an element created with Uint64
func ToUint64(elem []byte) uint64 {
	return binary.BigEndian.Uint64(elem)
}

// CompareUint64 compares two Uint64 elements
func CompareUint64(a, b []byte) int {
	x, y := ToUint64(a), ToUint64(b)
	switch {
	case x > y:
		return 1
	case x < y:
		return -1
	default:
		return 0
	}
}
