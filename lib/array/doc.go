// Package array provides Buffer, a contiguous array of fixed-size elements
// whose size is chosen at runtime.
//
// A Buffer grows in blocks of elements. When an insertion would fill the
// buffer, the capacity is increased by enough whole blocks and the contents are
// moved to new storage. The Buffer handle itself stays valid across growth, but
// any slice previously obtained from At, Range, Last or Bytes still points into
// the old storage and must be discarded.
//
// Complexity:
//   - Push / Pop: O(1) amortized
//   - Insert / RemoveAt before the end: O(n) (elements are shifted)
//   - Search: O(n) linear scan, elements up to 8 bytes are compared as integers
//   - Clear: O(1), the capacity is kept
//
// Growth can be disabled by using a block size of zero (GrowthDisabled). Such a
// buffer holds at most capacity-1 elements: every call that would bring the count
// up to the capacity returns ErrGrowthDisabled without changing the buffer.
//
// Example usage:
//
//	buf, err := array.New(array.DefaultBlockSize, 4, 8)
//	if err != nil {
//	    return err
//	}
//	for i := uint64(0); i < 100; i++ {
//	    if err := buf.PushUint64(i); err != nil {
//	        return err
//	    }
//	}
//	idx := buf.Search(buf.At(42)) // 42
//
// Buffers are not safe for concurrent use.
package array
