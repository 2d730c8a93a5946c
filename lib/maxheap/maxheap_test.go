package maxheap

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/ValentinKolb/alib/lib/array"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew tests the creation of a new heap
func TestNew(t *testing.T) {
	h, err := New(4, 4, 8, CompareUint64)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())

	_, ok := h.Peek()
	assert.False(t, ok)

	_, err = h.Pop()
	assert.ErrorIs(t, err, array.ErrEmpty)

	_, err = New(4, 4, 0, nil)
	assert.True(t, errors.Is(err, array.ErrInvalidElementSize))
}

// TestOrder pushes random numbers and expects them back in descending order
func TestOrder(t *testing.T) {
	h, err := New(8, 2, 8, CompareUint64)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	values := make([]uint64, 500)
	for i := range values {
		values[i] = uint64(rng.Intn(1000))
		require.NoError(t, h.Push(Uint64(values[i])))
	}
	require.Equal(t, len(values), h.Len())

	sort.Slice(values, func(i, j int) bool { return values[i] > values[j] })
	for _, want := range values {
		top, ok := h.Peek()
		require.True(t, ok)
		assert.Equal(t, want, ToUint64(top))

		got, err := h.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, ToUint64(got))
	}
	assert.Equal(t, 0, h.Len())
}

// TestDefaultCompare uses bytes.Compare when no comparison is given
func TestDefaultCompare(t *testing.T) {
	h, err := New(4, 4, 3, nil)
	require.NoError(t, err)

	for _, s := range []string{"abc", "zzz", "abd", "aaa"} {
		require.NoError(t, h.Push([]byte(s)))
	}

	var got []string
	for h.Len() > 0 {
		elem, err := h.Pop()
		require.NoError(t, err)
		got = append(got, string(elem))
	}
	assert.Equal(t, []string{"zzz", "abd", "abc", "aaa"}, got)
}

// TestGrowthDisabled fills a heap that cannot grow
func TestGrowthDisabled(t *testing.T) {
	h, err := New(array.GrowthDisabled, 4, 8, CompareUint64)
	require.NoError(t, err)

	for i := uint64(0); i < 3; i++ {
		require.NoError(t, h.Push(Uint64(i)))
	}
	err = h.Push(Uint64(10))
	assert.True(t, errors.Is(err, array.ErrGrowthDisabled))
	assert.Equal(t, 3, h.Len())

	top, _ := h.Peek()
	assert.Equal(t, uint64(2), ToUint64(top))
}

// TestWrongElementSize rejects elements of the wrong width
func TestWrongElementSize(t *testing.T) {
	h, err := New(4, 4, 8, CompareUint64)
	require.NoError(t, err)

	err = h.Push([]byte{1, 2, 3})
	assert.True(t, errors.Is(err, array.ErrElementSize))
	assert.Equal(t, 0, h.Len())
}

// TestPopReturnsCopy makes sure popped elements do not alias the heap
func TestPopReturnsCopy(t *testing.T) {
	h, err := New(4, 4, 8, CompareUint64)
	require.NoError(t, err)
	require.NoError(t, h.Push(Uint64(5)))
	require.NoError(t, h.Push(Uint64(9)))

	first, err := h.Pop()
	require.NoError(t, err)
	require.NoError(t, h.Push(Uint64(1)))
	assert.Equal(t, uint64(9), ToUint64(first))

	h.Release()
}
