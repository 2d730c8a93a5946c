package vlarray

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ValentinKolb/alib/lib/array"
	"github.com/pkg/errors"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	DefaultFrameSize = 64 // Frame size used when frameSize <= 0
	DefaultCapacity  = 32 // Capacity used when capacity <= 0

	recordSize = 8 // Size of an offset or size record
)

// --------------------------------------------------------------------------
// Store
// --------------------------------------------------------------------------

// Store is an ordered sequence of variable-length byte elements.
//
// All elements live in one data buffer that is divided into frames of
// frameSize bytes. Element i starts at frame offsets[i] and is sizes[i] bytes
// long; it reserves 1 + sizes[i]/frameSize frames. Elements are stored back to
// back: removing an element shifts everything behind it down, so there are never
// unused frames between two elements.
type Store struct {
	offsets *array.Buffer // Start frame of each element (uint64)
	sizes   *array.Buffer // Size in bytes of each element (uint64)
	data    *array.Buffer // Element frames

	isDirty   bool // Whether totalSize must be recomputed
	totalSize int  // Cached sum of all element sizes
}

// New creates an empty store.
//
//   - blockSize: growth block size in elements (see array.New; 0 disables growth)
//   - capacity: initial capacity in elements and in frames (<= 0 = DefaultCapacity)
//   - frameSize: size of one frame in bytes (<= 0 = DefaultFrameSize)
func New(blockSize, capacity, frameSize int) (*Store, error) {
	if frameSize <= 0 {
		frameSize = DefaultFrameSize
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	offsets, err := array.New(blockSize, capacity, recordSize)
	if err != nil {
		return nil, errors.Wrap(err, "offsets")
	}
	sizes, err := array.New(blockSize, capacity, recordSize)
	if err != nil {
		return nil, errors.Wrap(err, "sizes")
	}

	// the element count is bounded by offsets, frames may always grow
	dataBlockSize := blockSize
	if dataBlockSize == array.GrowthDisabled {
		dataBlockSize = array.DefaultBlockSize
	}
	data, err := array.New(dataBlockSize, capacity, frameSize)
	if err != nil {
		return nil, errors.Wrap(err, "data")
	}

	return &Store{
		offsets: offsets,
		sizes:   sizes,
		data:    data,
		isDirty: true,
	}, nil
}

// framesFor returns the number of frames reserved for an element of size bytes
func (s *Store) framesFor(size int) int {
	return 1 + size/s.data.ElementSize()
}

// --------------------------------------------------------------------------
// Insertion
// --------------------------------------------------------------------------

// Insert stores a copy of elem at index, moving later elements up.
// Index may equal Count (append).
//
// Either all backing buffers are updated or, on error, none of them.
func (s *Store) Insert(elem []byte, index int) error {
	return s.insert(elem, len(elem), index)
}

// InsertEmpty reserves a zeroed element of size bytes at index.
func (s *Store) InsertEmpty(size, index int) error {
	if size < 0 {
		return errors.Wrapf(array.ErrElementSize, "size %d", size)
	}
	return s.insert(nil, size, index)
}

// Push appends a copy of elem.
func (s *Store) Push(elem []byte) error {
	return s.Insert(elem, s.Count())
}

// PushEmpty appends a zeroed element of size bytes.
func (s *Store) PushEmpty(size int) error {
	return s.InsertEmpty(size, s.Count())
}

func (s *Store) insert(elem []byte, size, index int) error {
	count := s.Count()
	if index < 0 || index > count {
		return errors.Wrapf(array.ErrIndexOutOfRange, "insert at %d (count %d)", index, count)
	}
	frames := s.framesFor(size)

	// reserve room in all buffers before changing any of them
	if err := s.data.Grow(frames); err != nil {
		return errors.Wrap(err, "reserve frames")
	}
	if err := s.offsets.Grow(1); err != nil {
		return errors.Wrap(err, "reserve offset")
	}
	if err := s.sizes.Grow(1); err != nil {
		return errors.Wrap(err, "reserve size")
	}

	frameStart := s.data.Count()
	if index < count {
		frameStart = int(s.offsets.Uint64At(index))
	}

	// make space for the new frames and copy the element
	if err := s.data.ForwardShift(frameStart, frames); err != nil {
		return errors.Wrap(err, "shift frames")
	}
	if elem != nil {
		copy(s.data.Range(frameStart, frames), elem)
	}

	// register the element and move the offsets behind it
	if err := s.offsets.InsertUint64(uint64(frameStart), index); err != nil {
		return errors.Wrap(err, "insert offset")
	}
	for i := index + 1; i < s.offsets.Count(); i++ {
		s.offsets.PutUint64At(i, s.offsets.Uint64At(i)+uint64(frames))
	}
	if err := s.sizes.InsertUint64(uint64(size), index); err != nil {
		return errors.Wrap(err, "insert size")
	}

	s.isDirty = true
	return nil
}

// --------------------------------------------------------------------------
// Removal
// --------------------------------------------------------------------------

// RemoveAt removes the element at index and returns a copy of it.
// The frames of all later elements are moved down to close the gap.
func (s *Store) RemoveAt(index int) ([]byte, error) {
	count := s.Count()
	if count == 0 {
		return nil, array.ErrEmpty
	}
	if index < 0 || index >= count {
		return nil, errors.Wrapf(array.ErrIndexOutOfRange, "remove at %d (count %d)", index, count)
	}

	removed := make([]byte, s.Size(index))
	copy(removed, s.At(index))

	// special case: the only element
	if count == 1 {
		s.Clear()
		return removed, nil
	}

	offset := s.Offset(index)
	next := s.data.Count()
	if index < count-1 {
		next = s.Offset(index + 1)
	}
	frames := next - offset

	// the range and index were validated above, the removals cannot fail
	if err := s.data.RemoveRange(nil, offset, frames); err != nil {
		return nil, errors.Wrap(err, "remove frames")
	}
	if err := s.sizes.RemoveAt(nil, index); err != nil {
		return nil, errors.Wrap(err, "remove size")
	}
	if err := s.offsets.RemoveAt(nil, index); err != nil {
		return nil, errors.Wrap(err, "remove offset")
	}
	for i := index; i < s.offsets.Count(); i++ {
		s.offsets.PutUint64At(i, s.offsets.Uint64At(i)-uint64(frames))
	}

	s.isDirty = true
	return removed, nil
}

// Pop removes the last element and returns a copy of it.
func (s *Store) Pop() ([]byte, error) {
	return s.RemoveAt(s.Count() - 1)
}

// Clear removes all elements in O(1). Capacities do not change.
func (s *Store) Clear() {
	s.offsets.Clear()
	s.sizes.Clear()
	s.data.Clear()
	s.isDirty = true
}

// Release drops all backing storage. The store must not be used afterwards.
func (s *Store) Release() {
	s.offsets.Release()
	s.sizes.Release()
	s.data.Release()
	s.totalSize = 0
	s.isDirty = false
}

// --------------------------------------------------------------------------
// Queries
// --------------------------------------------------------------------------

// At returns the element at index. The slice aliases the store and is only
// valid until the next mutating call. It panics if index is out of range.
func (s *Store) At(index int) []byte {
	offset := s.Offset(index) * s.data.ElementSize()
	size := s.Size(index)
	raw := s.data.Bytes()
	return raw[offset : offset+size : offset+size]
}

// Peek returns the last element (see At).
func (s *Store) Peek() []byte {
	return s.At(s.Count() - 1)
}

// Size returns the size in bytes of the element at index.
func (s *Store) Size(index int) int {
	return int(s.sizes.Uint64At(index))
}

// Offset returns the first frame of the element at index.
func (s *Store) Offset(index int) int {
	return int(s.offsets.Uint64At(index))
}

// TotalSize returns the sum of all element sizes. The value is cached
// and recomputed only after a mutation.
func (s *Store) TotalSize() int {
	s.makeClean()
	return s.totalSize
}

func (s *Store) makeClean() {
	if !s.isDirty {
		return
	}
	s.totalSize = 0
	for i := 0; i < s.Count(); i++ {
		s.totalSize += s.Size(i)
	}
	s.isDirty = false
}

// CString treats every element as a NUL-terminated string and returns their
// concatenation without the terminators. The last byte of every non-empty
// element is dropped, empty elements contribute nothing.
func (s *Store) CString() string {
	size := s.TotalSize() - s.Count()
	if size < 0 {
		size = 0
	}
	out := make([]byte, 0, size)
	for i := 0; i < s.Count(); i++ {
		if elem := s.At(i); len(elem) > 0 {
			out = append(out, elem[:len(elem)-1]...)
		}
	}
	return string(out)
}

// Each calls fn for every element in order until fn returns false.
// The element slice is only valid during the call.
func (s *Store) Each(fn func(index int, elem []byte) bool) {
	for i := 0; i < s.Count(); i++ {
		if !fn(i, s.At(i)) {
			return
		}
	}
}

// Dump writes a hex dump of every element to w.
func (s *Store) Dump(w io.Writer) error {
	for i := 0; i < s.Count(); i++ {
		if _, err := fmt.Fprintf(w, "[%d] offset=%d size=%d\n", i, s.Offset(i), s.Size(i)); err != nil {
			return err
		}
		if s.Size(i) == 0 {
			continue
		}
		if _, err := io.WriteString(w, hex.Dump(s.At(i))); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Count() int     { return s.offsets.Count() }
func (s *Store) Capacity() int  { return s.offsets.Capacity() }
func (s *Store) IsEmpty() bool  { return s.Count() == 0 }
func (s *Store) IsFull() bool   { return s.Count() >= s.Capacity() }
func (s *Store) LastIndex() int { return s.Count() - 1 }
func (s *Store) Frames() int    { return s.data.Count() }
func (s *Store) FrameSize() int { return s.data.ElementSize() }
func (s *Store) BlockSize() int { return s.offsets.BlockSize() }
