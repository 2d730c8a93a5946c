package array

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"

	"github.com/pkg/errors"
)

// --------------------------------------------------------------------------
// Constants and Errors
// --------------------------------------------------------------------------

const (
	DefaultCapacity  = 32 // Capacity used when a negative capacity is requested
	DefaultBlockSize = 32 // Block size used when a negative block size is requested
	GrowthDisabled   = 0  // Block size that turns off automatic growth

	// maxWord is the widest element (in bytes) compared as an integer by Search
	maxWord = 8
)

var (
	ErrGrowthDisabled     = errors.New("array: growth is disabled")
	ErrIndexOutOfRange    = errors.New("array: index out of range")
	ErrElementSize        = errors.New("array: element has the wrong size")
	ErrInvalidElementSize = errors.New("array: element size must be positive")
	ErrEmpty              = errors.New("array: array is empty")
	ErrDuplicateIndex     = errors.New("array: duplicate index in range")
	ErrCapacityOverflow   = errors.New("array: capacity overflows the address space")
)

// --------------------------------------------------------------------------
// Buffer
// --------------------------------------------------------------------------

// Buffer is a contiguous array of fixed-size elements that grows in blocks.
//
// Every element is elementSize bytes long. The buffer grows by whole blocks of
// blockSize elements once count+n reaches the capacity. A block size of zero
// disables growth: any operation that needs more room fails with
// ErrGrowthDisabled.
//
// Growing may move the backing storage. Slices returned by At, Bytes, Range and
// Last alias that storage and must not be used after the next call that can
// grow or shift the buffer.
type Buffer struct {
	count       int    // Number of elements in use
	capacity    int    // Number of elements that fit without growing
	blockSize   int    // Number of elements added per growth block
	elementSize int    // Size of each element in bytes
	data        []byte // Backing storage, len(data) == capacity*elementSize
}

// New creates an empty buffer.
//
//   - blockSize: elements added per growth step (< 0 = DefaultBlockSize, 0 = growth disabled)
//   - capacity: initial capacity in elements (< 0 = DefaultCapacity)
//   - elementSize: size of each element in bytes (must be > 0)
func New(blockSize, capacity, elementSize int) (*Buffer, error) {
	if elementSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidElementSize, "element size %d", elementSize)
	}
	if capacity < 0 {
		capacity = DefaultCapacity
	}
	if blockSize < 0 {
		blockSize = DefaultBlockSize
	}
	size, err := byteSize(capacity, elementSize)
	if err != nil {
		return nil, err
	}

	return &Buffer{
		capacity:    capacity,
		blockSize:   blockSize,
		elementSize: elementSize,
		data:        make([]byte, size),
	}, nil
}

// byteSize returns n*elementSize or ErrCapacityOverflow
func byteSize(n, elementSize int) (int, error) {
	if n > math.MaxInt/elementSize {
		return 0, errors.Wrapf(ErrCapacityOverflow, "%d elements of %d bytes", n, elementSize)
	}
	return n * elementSize, nil
}

// --------------------------------------------------------------------------
// Growth
// --------------------------------------------------------------------------

// Expand increases the capacity by blocks*blockSize elements.
// It does nothing if blocks or the block size is zero.
func (b *Buffer) Expand(blocks int) error {
	if b.blockSize == 0 || blocks <= 0 {
		return nil
	}
	if blocks > (math.MaxInt-b.capacity)/b.blockSize {
		return errors.Wrapf(ErrCapacityOverflow, "expand by %d blocks", blocks)
	}
	newCapacity := b.capacity + b.blockSize*blocks
	size, err := byteSize(newCapacity, b.elementSize)
	if err != nil {
		return err
	}

	// relocate the storage
	data := make([]byte, size)
	copy(data, b.data[:b.count*b.elementSize])
	b.data = data
	b.capacity = newCapacity
	return nil
}

// Grow makes room for n more elements, expanding the buffer only if
// count+n would reach the capacity. A buffer with growth disabled fails with
// ErrGrowthDisabled as soon as growing would be needed, so it holds at most
// capacity-1 elements.
func (b *Buffer) Grow(n int) error {
	if n < 0 {
		return errors.Wrapf(ErrIndexOutOfRange, "grow by %d", n)
	}
	if b.count+n < b.capacity {
		return nil
	}
	if b.blockSize == 0 {
		return errors.Wrapf(ErrGrowthDisabled, "grow by %d (count %d, capacity %d)", n, b.count, b.capacity)
	}
	blocks := (n + b.blockSize - 1) / b.blockSize
	if blocks == 0 {
		blocks = 1
	}
	return b.Expand(blocks)
}

// --------------------------------------------------------------------------
// Insertion
// --------------------------------------------------------------------------

// ForwardShift opens a gap of n zeroed elements at index by moving the
// elements at index and above n positions up. Index may equal Count.
func (b *Buffer) ForwardShift(index, n int) error {
	if n == 0 {
		return nil
	}
	if n < 0 || index < 0 || index > b.count {
		return errors.Wrapf(ErrIndexOutOfRange, "shift %d elements at %d (count %d)", n, index, b.count)
	}
	if err := b.Grow(n); err != nil {
		return err
	}

	start := index * b.elementSize
	end := b.count * b.elementSize
	gap := n * b.elementSize
	if index < b.count {
		copy(b.data[start+gap:end+gap], b.data[start:end])
	}
	clear(b.data[start : start+gap])
	b.count += n
	return nil
}

// Insert puts elem at index, moving later elements up by one.
// A nil elem inserts a zeroed element.
//
// Appending takes O(1) if there is enough capacity, inserting before the last
// element takes O(n).
func (b *Buffer) Insert(elem []byte, index int) error {
	if elem != nil && len(elem) != b.elementSize {
		return errors.Wrapf(ErrElementSize, "got %d bytes, want %d", len(elem), b.elementSize)
	}
	if index < 0 || index > b.count {
		return errors.Wrapf(ErrIndexOutOfRange, "insert at %d (count %d)", index, b.count)
	}
	if err := b.ForwardShift(index, 1); err != nil {
		return err
	}
	if elem != nil {
		copy(b.At(index), elem)
	}
	return nil
}

// Push appends elem to the end of the buffer.
func (b *Buffer) Push(elem []byte) error {
	return b.Insert(elem, b.count)
}

// Set overwrites the element at index.
func (b *Buffer) Set(index int, elem []byte) error {
	if len(elem) != b.elementSize {
		return errors.Wrapf(ErrElementSize, "got %d bytes, want %d", len(elem), b.elementSize)
	}
	if !b.ContainsIndex(index) {
		return errors.Wrapf(ErrIndexOutOfRange, "set at %d (count %d)", index, b.count)
	}
	copy(b.At(index), elem)
	return nil
}

// --------------------------------------------------------------------------
// Removal
// --------------------------------------------------------------------------

// RemoveRange removes the n consecutive elements starting at index.
// If out is not nil the removed bytes are copied to it; it must hold at least
// n*ElementSize bytes.
//
// Removing a suffix (pop) takes O(1), anything else takes O(n).
func (b *Buffer) RemoveRange(out []byte, index, n int) error {
	if b.count == 0 {
		return ErrEmpty
	}
	if n <= 0 || index < 0 || index > b.count-n {
		return errors.Wrapf(ErrIndexOutOfRange, "remove %d elements at %d (count %d)", n, index, b.count)
	}

	start := index * b.elementSize
	span := n * b.elementSize
	if out != nil {
		if len(out) < span {
			return errors.Wrapf(ErrElementSize, "output holds %d bytes, need %d", len(out), span)
		}
		copy(out, b.data[start:start+span])
	}
	if index+n < b.count {
		// close the gap
		copy(b.data[start:], b.data[start+span:b.count*b.elementSize])
	}
	b.count -= n
	return nil
}

// RemoveAt removes the element at index, copying it to out if out is not nil.
func (b *Buffer) RemoveAt(out []byte, index int) error {
	return b.RemoveRange(out, index, 1)
}

// Pop removes the last element, copying it to out if out is not nil.
func (b *Buffer) Pop(out []byte) error {
	return b.RemoveAt(out, b.count-1)
}

// RemoveIndices removes the elements at the given (unordered) indices while
// keeping the order of the remaining elements. If out is not nil the removed
// elements are copied to it in ascending index order.
func (b *Buffer) RemoveIndices(out []byte, indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)
	for i, idx := range sorted {
		if !b.ContainsIndex(idx) {
			return errors.Wrapf(ErrIndexOutOfRange, "remove at %d (count %d)", idx, b.count)
		}
		if i > 0 && sorted[i-1] == idx {
			return errors.Wrapf(ErrDuplicateIndex, "index %d", idx)
		}
	}
	if out != nil && len(out) < len(sorted)*b.elementSize {
		return errors.Wrapf(ErrElementSize, "output holds %d bytes, need %d", len(out), len(sorted)*b.elementSize)
	}

	// compact in place
	next, kept, removed := 0, 0, 0
	for i := 0; i < b.count; i++ {
		if next < len(sorted) && sorted[next] == i {
			if out != nil {
				copy(out[removed*b.elementSize:], b.At(i))
			}
			next++
			removed++
			continue
		}
		if kept != i {
			copy(b.At(kept), b.At(i))
		}
		kept++
	}
	b.count = kept
	return nil
}

// Clear removes all elements. The capacity does not change.
func (b *Buffer) Clear() {
	b.count = 0
}

// Release drops the backing storage. The buffer must not be used afterwards.
func (b *Buffer) Release() {
	b.data = nil
	b.count = 0
	b.capacity = 0
}

// --------------------------------------------------------------------------
// Queries
// --------------------------------------------------------------------------

// Search returns the index of the first element equal to elem or -1.
// Elements of up to 8 bytes are compared as integers.
func (b *Buffer) Search(elem []byte) int {
	if len(elem) != b.elementSize {
		return -1
	}
	if b.elementSize <= maxWord {
		want := loadWord(elem)
		for i := 0; i < b.count; i++ {
			if loadWord(b.At(i)) == want {
				return i
			}
		}
		return -1
	}
	for i := 0; i < b.count; i++ {
		if bytes.Equal(b.At(i), elem) {
			return i
		}
	}
	return -1
}

// loadWord reads up to 8 bytes as a zero-extended little endian integer
func loadWord(p []byte) uint64 {
	var w [maxWord]byte
	copy(w[:], p)
	return binary.LittleEndian.Uint64(w[:])
}

// Clone returns an independent copy whose capacity equals its count.
func (b *Buffer) Clone() *Buffer {
	n := b.count * b.elementSize
	data := make([]byte, n)
	copy(data, b.data[:n])
	return &Buffer{
		count:       b.count,
		capacity:    b.count,
		blockSize:   b.blockSize,
		elementSize: b.elementSize,
		data:        data,
	}
}

// Equal reports whether both buffers have the same block size, element size,
// count and contents. Capacity is not compared.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == other {
		return true
	}
	if b == nil || other == nil {
		return false
	}
	if b.blockSize != other.blockSize ||
		b.elementSize != other.elementSize ||
		b.count != other.count {
		return false
	}
	return bytes.Equal(b.Bytes(), other.Bytes())
}

// ContainsIndex reports whether index addresses an element.
func (b *Buffer) ContainsIndex(index int) bool {
	return index >= 0 && index < b.count
}

// At returns the element at index. It panics if index is out of range.
func (b *Buffer) At(index int) []byte {
	if !b.ContainsIndex(index) {
		panic(errors.Wrapf(ErrIndexOutOfRange, "at %d (count %d)", index, b.count))
	}
	start := index * b.elementSize
	return b.data[start : start+b.elementSize : start+b.elementSize]
}

// Last returns the last element. It panics if the buffer is empty.
func (b *Buffer) Last() []byte {
	return b.At(b.count - 1)
}

// Range returns the bytes of the n elements starting at index.
func (b *Buffer) Range(index, n int) []byte {
	if n < 0 || index < 0 || index+n > b.count {
		panic(errors.Wrapf(ErrIndexOutOfRange, "range %d+%d (count %d)", index, n, b.count))
	}
	return b.data[index*b.elementSize : (index+n)*b.elementSize]
}

// Bytes returns the bytes of all elements in use.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.count*b.elementSize]
}

// CString interprets the contents as a NUL-terminated string and returns
// everything before the first NUL byte.
func (b *Buffer) CString() string {
	raw := b.Bytes()
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

func (b *Buffer) Count() int       { return b.count }
func (b *Buffer) Capacity() int    { return b.capacity }
func (b *Buffer) BlockSize() int   { return b.blockSize }
func (b *Buffer) ElementSize() int { return b.elementSize }
func (b *Buffer) IsEmpty() bool    { return b.count == 0 }
func (b *Buffer) LastIndex() int   { return b.count - 1 }

// --------------------------------------------------------------------------
// Fixed width helpers
// --------------------------------------------------------------------------

// Uint64At reads element index as a little endian uint64.
// The buffer must have an element size of 8.
func (b *Buffer) Uint64At(index int) uint64 {
	return binary.LittleEndian.Uint64(b.At(index))
}

// PutUint64At overwrites element index with v.
func (b *Buffer) PutUint64At(index int, v uint64) {
	binary.LittleEndian.PutUint64(b.At(index), v)
}

// PushUint64 appends v. The buffer must have an element size of 8.
func (b *Buffer) PushUint64(v uint64) error {
	return b.InsertUint64(v, b.count)
}

// InsertUint64 inserts v at index. The buffer must have an element size of 8.
func (b *Buffer) InsertUint64(v uint64, index int) error {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return b.Insert(tmp[:], index)
}

// Uint32At reads element index as a little endian uint32.
// The buffer must have an element size of 4.
func (b *Buffer) Uint32At(index int) uint32 {
	return binary.LittleEndian.Uint32(b.At(index))
}

// PushUint32 appends v. The buffer must have an element size of 4.
func (b *Buffer) PushUint32(v uint32) error {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return b.Push(tmp[:])
}
