package hashtable

import (
	"bytes"
	"math"

	"github.com/ValentinKolb/alib/lib/array"
	"github.com/ValentinKolb/alib/lib/hashing"
	"github.com/ValentinKolb/alib/lib/vlarray"
	"github.com/pkg/errors"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	DefaultCapacity      = 32   // Number of buckets used when capacity <= 0
	DefaultMaxLoadFactor = 0.75 // Load factor limit used when maxLoadFactor <= 0

	bucketCapacity  = 2 // Initial number of entries of a new bucket
	bucketBlockSize = 2 // Growth block size of a bucket
	indexSize       = 8 // Size of a kvIndex record in a bucket
	hashSize        = 4 // Size of a cached hash

	maxBuckets = math.MaxInt32 // Upper bound of the bucket count
)

// --------------------------------------------------------------------------
// HashTable
// --------------------------------------------------------------------------

// HashTable maps byte string keys to byte string values using separate
// chaining.
//
// Keys and values are kept in two variable-length stores that are always
// appended in lockstep, so entry i (its kvIndex) is keys[i] -> values[i].
// Each bucket is a small array of kvIndex records; buckets are created on first
// use. The hash of every entry is cached in kvIndex order so growing the table
// never rehashes a key.
//
// Keys are not unique: inserting an existing key adds another entry, and
// Lookup returns the oldest one.
type HashTable struct {
	hashFunc hashing.HashFunc

	keys    *vlarray.Store  // Keys in insertion order
	values  *vlarray.Store  // Values in insertion order
	hashes  *array.Buffer   // Cached uint32 hash of every entry
	buckets []*array.Buffer // kvIndex records per bucket, nil = empty

	nonEmptyBuckets int
	maxLoadFactor   float64
	loadFactor      float64 // Cached count/bucketCount
	isDirty         bool    // Whether loadFactor must be recomputed
}

// New creates an empty hash table.
//
//   - hashFunc: hash function for keys (nil = hashing.CRC32)
//   - capacity: initial number of buckets (<= 0 = DefaultCapacity)
//   - maxLoadFactor: the table grows once the load factor exceeds this (<= 0 = DefaultMaxLoadFactor)
func New(hashFunc hashing.HashFunc, capacity int, maxLoadFactor float64) (*HashTable, error) {
	return NewWithStorage(hashFunc, capacity, maxLoadFactor, array.DefaultBlockSize, vlarray.DefaultFrameSize)
}

// NewWithStorage is like New but also sets up the entry storage:
//
//   - blockSize: growth block size of the key, value and hash storage (see
//     array.New). With growth disabled the table holds at most capacity-1
//     entries, however many buckets it grows to.
//   - frameSize: frame size of the key and value stores (<= 0 = vlarray.DefaultFrameSize)
func NewWithStorage(hashFunc hashing.HashFunc, capacity int, maxLoadFactor float64, blockSize, frameSize int) (*HashTable, error) {
	if hashFunc == nil {
		hashFunc = hashing.CRC32
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if capacity > maxBuckets {
		return nil, errors.Wrapf(array.ErrCapacityOverflow, "%d buckets", capacity)
	}
	if maxLoadFactor <= 0 {
		maxLoadFactor = DefaultMaxLoadFactor
	}

	keys, err := vlarray.New(blockSize, capacity, frameSize)
	if err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	values, err := vlarray.New(blockSize, capacity, frameSize)
	if err != nil {
		return nil, errors.Wrap(err, "values")
	}
	hashes, err := array.New(blockSize, capacity, hashSize)
	if err != nil {
		return nil, errors.Wrap(err, "hashes")
	}

	return &HashTable{
		hashFunc:      hashFunc,
		keys:          keys,
		values:        values,
		hashes:        hashes,
		buckets:       make([]*array.Buffer, capacity),
		maxLoadFactor: maxLoadFactor,
	}, nil
}

// --------------------------------------------------------------------------
// Mutation
// --------------------------------------------------------------------------

// Insert adds the entry key -> value.
//
// If the load factor before the insert exceeds the maximum, the table first
// doubles its number of buckets. When any step fails the table is left exactly
// as it was before the call.
func (h *HashTable) Insert(key, value []byte) error {
	hash := h.hashFunc(key)
	loadFactor := h.LoadFactor()

	if err := h.keys.Push(key); err != nil {
		return errors.Wrap(err, "insert key")
	}
	if err := h.values.Push(value); err != nil {
		_, _ = h.keys.Pop()
		return errors.Wrap(err, "insert value")
	}
	kvIndex := h.keys.Count() - 1

	if loadFactor > h.maxLoadFactor {
		if err := h.Grow(len(h.buckets)); err != nil {
			h.rollback()
			return err
		}
	}

	if err := h.hashes.PushUint32(hash); err != nil {
		h.rollback()
		return errors.Wrap(err, "cache hash")
	}
	if err := h.place(h.buckets, kvIndex, hash, &h.nonEmptyBuckets); err != nil {
		_ = h.hashes.Pop(nil)
		h.rollback()
		return err
	}

	h.isDirty = true
	return nil
}

// rollback removes the last key and value
func (h *HashTable) rollback() {
	_, _ = h.values.Pop()
	_, _ = h.keys.Pop()
}

// place appends kvIndex to its bucket in buckets, creating the bucket if needed
func (h *HashTable) place(buckets []*array.Buffer, kvIndex int, hash uint32, nonEmpty *int) error {
	bucketID := uint64(hash) % uint64(len(buckets))

	bucket := buckets[bucketID]
	created := false
	if bucket == nil {
		var err error
		bucket, err = array.New(bucketBlockSize, bucketCapacity, indexSize)
		if err != nil {
			return errors.Wrapf(err, "create bucket %d", bucketID)
		}
		created = true
	}

	if err := bucket.PushUint64(uint64(kvIndex)); err != nil {
		return errors.Wrapf(err, "append to bucket %d", bucketID)
	}
	if created {
		buckets[bucketID] = bucket
		*nonEmpty++
	}
	return nil
}

// Grow adds n buckets and redistributes all entries using the cached hashes.
// The table only switches to the new buckets once every entry is placed, so a
// failed Grow leaves it unchanged.
func (h *HashTable) Grow(n int) error {
	if n <= 0 {
		return nil
	}
	if n > maxBuckets-len(h.buckets) {
		return errors.Wrapf(array.ErrCapacityOverflow, "grow %d buckets by %d", len(h.buckets), n)
	}

	buckets := make([]*array.Buffer, len(h.buckets)+n)
	nonEmpty := 0
	for kvIndex := 0; kvIndex < h.hashes.Count(); kvIndex++ {
		if err := h.place(buckets, kvIndex, h.hashes.Uint32At(kvIndex), &nonEmpty); err != nil {
			return errors.Wrapf(err, "grow to %d buckets", len(buckets))
		}
	}

	for _, bucket := range h.buckets {
		if bucket != nil {
			bucket.Release()
		}
	}
	h.buckets = buckets
	h.nonEmptyBuckets = nonEmpty
	h.isDirty = true
	return nil
}

// Release drops all storage. The table must not be used afterwards.
func (h *HashTable) Release() {
	for _, bucket := range h.buckets {
		if bucket != nil {
			bucket.Release()
		}
	}
	h.buckets = nil
	h.nonEmptyBuckets = 0
	h.keys.Release()
	h.values.Release()
	h.hashes.Release()
	h.loadFactor = 0
	h.isDirty = false
}

// --------------------------------------------------------------------------
// Lookup
// --------------------------------------------------------------------------

// Lookup returns the kvIndex of the first entry inserted with key.
func (h *HashTable) Lookup(key []byte) (int, bool) {
	found := -1
	h.scan(key, func(kvIndex int) bool {
		found = kvIndex
		return false
	})
	return found, found >= 0
}

// LookupAll returns the kvIndex of every entry with key in insertion order.
func (h *HashTable) LookupAll(key []byte) []int {
	var matches []int
	h.scan(key, func(kvIndex int) bool {
		matches = append(matches, kvIndex)
		return true
	})
	return matches
}

// scan calls fn for every entry in the bucket of key whose key equals key,
// until fn returns false
func (h *HashTable) scan(key []byte, fn func(kvIndex int) bool) {
	if len(h.buckets) == 0 {
		return
	}
	hash := h.hashFunc(key)
	bucket := h.buckets[uint64(hash)%uint64(len(h.buckets))]
	if bucket == nil {
		return
	}

	for i := 0; i < bucket.Count(); i++ {
		kvIndex := int(bucket.Uint64At(i))
		if h.hashes.Uint32At(kvIndex) != hash || h.keys.Size(kvIndex) != len(key) {
			continue
		}
		if bytes.Equal(h.keys.At(kvIndex), key) && !fn(kvIndex) {
			return
		}
	}
}

// Get returns the value of the first entry with key. The slice aliases the
// table and is only valid until the next Insert.
func (h *HashTable) Get(key []byte) ([]byte, bool) {
	kvIndex, ok := h.Lookup(key)
	if !ok {
		return nil, false
	}
	return h.values.At(kvIndex), true
}

// Has reports whether an entry with key exists.
func (h *HashTable) Has(key []byte) bool {
	_, ok := h.Lookup(key)
	return ok
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// LoadFactor returns count/bucketCount. The value is cached and recomputed
// only after the table changed.
func (h *HashTable) LoadFactor() float64 {
	if h.isDirty {
		h.loadFactor = 0
		if len(h.buckets) > 0 {
			h.loadFactor = float64(h.Count()) / float64(len(h.buckets))
		}
		h.isDirty = false
	}
	return h.loadFactor
}

// Key returns the key of entry kvIndex (see Get for aliasing).
func (h *HashTable) Key(kvIndex int) []byte { return h.keys.At(kvIndex) }

// Value returns the value of entry kvIndex (see Get for aliasing).
func (h *HashTable) Value(kvIndex int) []byte { return h.values.At(kvIndex) }

func (h *HashTable) Count() int                 { return h.keys.Count() }
func (h *HashTable) BucketCount() int           { return len(h.buckets) }
func (h *HashTable) NonEmptyBuckets() int       { return h.nonEmptyBuckets }
func (h *HashTable) MaxLoadFactor() float64     { return h.maxLoadFactor }
func (h *HashTable) HashFunc() hashing.HashFunc { return h.hashFunc }
func (h *HashTable) BlockSize() int             { return h.keys.BlockSize() }
func (h *HashTable) FrameSize() int             { return h.keys.FrameSize() }

// BucketSizes returns the number of entries in each bucket.
func (h *HashTable) BucketSizes() []int {
	sizes := make([]int, len(h.buckets))
	for i, bucket := range h.buckets {
		if bucket != nil {
			sizes[i] = bucket.Count()
		}
	}
	return sizes
}

// Each calls fn for every entry in kvIndex order until fn returns false.
func (h *HashTable) Each(fn func(kvIndex int, key, value []byte) bool) {
	for i := 0; i < h.Count(); i++ {
		if !fn(i, h.keys.At(i), h.values.At(i)) {
			return
		}
	}
}
