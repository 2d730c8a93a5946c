package vlarray

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/ValentinKolb/alib/lib/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testData holds NUL-terminated strings, the first one is empty
var testData = []string{"", "a", "bb", "ccc"}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func newTestStore(t *testing.T, blockSize, capacity, frameSize int) *Store {
	t.Helper()
	s, err := New(blockSize, capacity, frameSize)
	require.NoError(t, err)
	for _, d := range testData {
		require.NoError(t, s.Push(cstr(d)))
	}
	return s
}

// requireContents checks the elements and that the offsets are contiguous
func requireContents(t *testing.T, s *Store, want ...string) {
	t.Helper()
	require.Equal(t, len(want), s.Count())
	frame := 0
	for i, w := range want {
		require.Equal(t, cstr(w), s.At(i), "element %d", i)
		require.Equal(t, frame, s.Offset(i), "offset of element %d", i)
		frame += s.framesFor(s.Size(i))
	}
	require.Equal(t, frame, s.Frames())
}

func TestNew(t *testing.T) {
	s, err := New(-1, -1, -1)
	require.NoError(t, err)
	assert.Equal(t, DefaultFrameSize, s.FrameSize())
	assert.Equal(t, DefaultCapacity, s.Capacity())
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.TotalSize())
}

func TestPush(t *testing.T) {
	for _, frameSize := range []int{1, 2, 3, 64} {
		s := newTestStore(t, 1, 1, frameSize)
		requireContents(t, s, testData...)
	}
}

func TestFrameRounding(t *testing.T) {
	s, err := New(-1, -1, 4)
	require.NoError(t, err)

	// sizes 0..3 take one frame, a size of exactly 4 takes two
	require.NoError(t, s.PushEmpty(0))
	require.NoError(t, s.PushEmpty(3))
	require.NoError(t, s.PushEmpty(4))
	require.NoError(t, s.PushEmpty(9))

	assert.Equal(t, []int{0, 1, 2, 4}, []int{s.Offset(0), s.Offset(1), s.Offset(2), s.Offset(3)})
	assert.Equal(t, 7, s.Frames())
	assert.Equal(t, make([]byte, 9), s.At(3))
}

func TestInsertMiddle(t *testing.T) {
	s := newTestStore(t, -1, -1, 2)

	require.NoError(t, s.Insert(cstr("xyzw"), 2))
	requireContents(t, s, "", "a", "xyzw", "bb", "ccc")

	require.NoError(t, s.Insert(cstr("first"), 0))
	requireContents(t, s, "first", "", "a", "xyzw", "bb", "ccc")

	require.ErrorIs(t, s.Insert(cstr("x"), 7), array.ErrIndexOutOfRange)
	require.ErrorIs(t, s.InsertEmpty(-1, 0), array.ErrElementSize)
	requireContents(t, s, "first", "", "a", "xyzw", "bb", "ccc")
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		removed string
		rest    []string
	}{
		{"First", 0, "", []string{"a", "bb", "ccc"}},
		{"Middle", 2, "bb", []string{"", "a", "ccc"}},
		{"Last", 3, "ccc", []string{"", "a", "bb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, -1, -1, 1)
			removed, err := s.RemoveAt(tt.index)
			require.NoError(t, err)
			assert.Equal(t, tt.removed, strings.TrimSuffix(string(removed), "\x00"))
			assert.Equal(t, cstr(tt.removed), removed)
			requireContents(t, s, tt.rest...)
		})
	}
}

func TestRemoveErrors(t *testing.T) {
	s, err := New(-1, -1, -1)
	require.NoError(t, err)

	_, err = s.Pop()
	require.ErrorIs(t, err, array.ErrEmpty)

	require.NoError(t, s.Push([]byte("x")))
	_, err = s.RemoveAt(1)
	require.ErrorIs(t, err, array.ErrIndexOutOfRange)
	_, err = s.RemoveAt(-1)
	require.ErrorIs(t, err, array.ErrIndexOutOfRange)
	assert.Equal(t, 1, s.Count())

	// removing the only element clears the store
	removed, err := s.RemoveAt(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), removed)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Frames())
}

func TestPop(t *testing.T) {
	s := newTestStore(t, -1, -1, 2)
	for i := len(testData) - 1; i >= 0; i-- {
		assert.Equal(t, cstr(testData[i]), s.Peek())
		popped, err := s.Pop()
		require.NoError(t, err)
		assert.Equal(t, cstr(testData[i]), popped)
	}
	assert.True(t, s.IsEmpty())
}

func TestRemoveThenInsert(t *testing.T) {
	s := newTestStore(t, 2, 2, 3)

	_, err := s.RemoveAt(1)
	require.NoError(t, err)
	require.NoError(t, s.Insert(cstr("a long element"), 1))
	_, err = s.RemoveAt(0)
	require.NoError(t, err)
	require.NoError(t, s.Push(cstr("z")))
	requireContents(t, s, "a long element", "bb", "ccc", "z")
}

func TestClear(t *testing.T) {
	s := newTestStore(t, -1, -1, -1)
	capacity := s.Capacity()

	for i := 0; i < 2; i++ {
		s.Clear()
		assert.Equal(t, 0, s.Count())
		assert.Equal(t, 0, s.Frames())
		assert.Equal(t, capacity, s.Capacity())
		assert.Equal(t, 0, s.TotalSize())
	}

	require.NoError(t, s.Push(cstr("again")))
	requireContents(t, s, "again")
}

func TestCString(t *testing.T) {
	s := newTestStore(t, -1, -1, -1)
	assert.Equal(t, "abbccc", s.CString())

	_, err := s.RemoveAt(2)
	require.NoError(t, err)
	assert.Equal(t, "accc", s.CString())

	// empty elements are skipped
	require.NoError(t, s.PushEmpty(0))
	assert.Equal(t, "accc", s.CString())
}

func TestTotalSize(t *testing.T) {
	s := newTestStore(t, -1, -1, -1)

	want := 0
	for _, d := range testData {
		want += len(d) + 1
	}
	assert.Equal(t, want, s.TotalSize())
	assert.Equal(t, want, s.TotalSize())

	_, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, want-4, s.TotalSize())
}

func TestGrowthDisabled(t *testing.T) {
	s, err := New(array.GrowthDisabled, 3, 4)
	require.NoError(t, err)

	// the third element would bring the count up to the capacity
	require.NoError(t, s.Push([]byte("one")))
	require.NoError(t, s.Push([]byte("two")))
	assert.False(t, s.IsFull())

	err = s.Push([]byte("three"))
	require.ErrorIs(t, err, array.ErrGrowthDisabled)
	err = s.Insert([]byte("zero"), 0)
	require.ErrorIs(t, err, array.ErrGrowthDisabled)

	// nothing changed
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, []byte("one"), s.At(0))
	assert.Equal(t, []byte("two"), s.At(1))
	assert.Equal(t, 1, s.Offset(1))
	assert.Equal(t, 2, s.Frames())
}

func TestEach(t *testing.T) {
	s := newTestStore(t, -1, -1, -1)

	var seen []string
	s.Each(func(i int, elem []byte) bool {
		seen = append(seen, string(bytes.TrimSuffix(elem, []byte{0})))
		return i < 2
	})
	assert.Equal(t, []string{"", "a", "bb"}, seen)
}

func TestDump(t *testing.T) {
	s := newTestStore(t, -1, -1, -1)

	var out bytes.Buffer
	require.NoError(t, s.Dump(&out))
	assert.Contains(t, out.String(), "[3] offset=3 size=4")
	assert.Contains(t, out.String(), "63 63 63 00")
}

func TestLargeElements(t *testing.T) {
	s, err := New(1, 1, 8)
	require.NoError(t, err)

	var want [][]byte
	for i := 0; i < 50; i++ {
		elem := bytes.Repeat([]byte{byte(i)}, i*7)
		require.NoError(t, s.Insert(elem, i/2))
		want = slices.Insert(want, i/2, elem)
	}
	require.Equal(t, len(want), s.Count())
	for i := range want {
		require.Equal(t, want[i], s.At(i), "element %d", i)
	}
}
